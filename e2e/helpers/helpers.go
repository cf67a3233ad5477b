package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/models/modelstesting"
	"github.com/MichalMitros/product-sync/internal/platform/storage"
	pgmodels "github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/product-sync/internal/platform/storage/storagetesting"
	"github.com/go-jet/jet/v2/qrm"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "Content-Type"
	waitTimeout = 30 * time.Second
)

// TargetServer is in-memory target exposing products resource.
type TargetServer struct {
	*httptest.Server

	mu       sync.Mutex
	products map[string]models.FieldSet
	pushes   int
}

// NewTargetServer starts TargetServer closed after test is finished.
func NewTargetServer(t *testing.T) *TargetServer {
	t.Helper()

	srv := &TargetServer{products: map[string]models.FieldSet{}}
	srv.Server = httptest.NewServer(http.HandlerFunc(srv.handle))

	t.Cleanup(func() {
		srv.Close()
	})

	return srv
}

// Products returns copy of stored products.
func (s *TargetServer) Products() map[string]models.FieldSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Assign(s.products)
}

// Pushes returns number of create and update requests received so far.
func (s *TargetServer) Pushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pushes
}

func (s *TargetServer) handle(wrt http.ResponseWriter, req *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimPrefix(req.URL.Path, "/products")
	id = strings.TrimPrefix(id, "/")

	switch {
	case req.Method == http.MethodPost && id == "":
		id = fmt.Sprintf("ext-%d", len(s.products)+1)
	case req.Method == http.MethodPut && id != "":
		if _, ok := s.products[id]; !ok {
			wrt.WriteHeader(http.StatusNotFound)
			return
		}
	default:
		wrt.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var fields models.FieldSet
	if err := json.NewDecoder(req.Body).Decode(&fields); err != nil {
		wrt.WriteHeader(http.StatusBadRequest)
		return
	}
	s.products[id] = fields
	s.pushes++

	wrt.Header().Add(contentType, "application/json")
	_ = json.NewEncoder(wrt).Encode(map[string]any{
		"id":        id,
		"updatedAt": time.Now().UTC(),
	})
}

// InsertProducts inserts n fake products and returns their IDs.
func InsertProducts(t *testing.T, db qrm.DB, n int) []int64 {
	t.Helper()

	products := lo.Times(n, func(_ int) pgmodels.Product {
		snapshot := modelstesting.FakeProductSnapshot()
		product, err := storage.ToDBProduct(&snapshot)
		require.NoError(t, err, "can't convert product")
		return *product
	})

	inserted := storagetesting.InsertProducts(t, db, products...)

	return lo.Map(inserted, func(p pgmodels.Product, _ int) int64 { return p.ID })
}

// WaitForRecords is blocking helper function, returns records once there are n of them.
func WaitForRecords(t *testing.T, queryable qrm.Queryable, n int) []pgmodels.SyncRecord {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case <-deadline:
			require.FailNow(t, "records weren't created in time")
		case <-time.After(time.Millisecond * 250):
		}

		records := storagetesting.GetSyncRecords(t, queryable)
		if len(records) >= n {
			return records
		}
	}
}

// WaitForJob is blocking helper function, returns n-th created job once it exists.
func WaitForJob(t *testing.T, queryable qrm.Queryable, n int) pgmodels.SyncJob {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case <-deadline:
			require.FailNow(t, "job wasn't created in time")
		case <-time.After(time.Millisecond * 250):
		}

		jobs := storagetesting.GetSyncJobs(t, queryable)
		if len(jobs) >= n {
			return jobs[n-1]
		}
	}
}

// WaitForJobToBeFinished is blocking helper function, returns job after it is finished.
func WaitForJobToBeFinished(t *testing.T, queryable qrm.Queryable, n int) *models.SyncJob {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case <-deadline:
			require.FailNow(t, "job wasn't finished in time")
		case <-time.After(time.Millisecond * 500):
		}

		dbJob := WaitForJob(t, queryable, n)
		if !models.JobStatus(dbJob.Status).Finished() {
			continue
		}

		job, err := storage.FromDBSyncJob(&dbJob)
		require.NoError(t, err, "can't convert job")

		return job
	}
}

// DeclareRMQExchange is helper function for declaring RMQ exchange.
func DeclareRMQExchange(t *testing.T, ch *amqp.Channel, exchange string) {
	t.Helper()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		require.FailNow(t, "can't declare exchange", exchange, err)
	}
}

// DeclareRMQQueue is helper function for declaring RMQ queue and binding and cleaning them after test is finished.
func DeclareRMQQueue(t *testing.T, channel *amqp.Channel, queueName, exchange, routingKey string) {
	t.Helper()

	_, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		require.FailNow(t, "can't declare queue", queueName, err)
	}

	err = channel.QueueBind(queueName, routingKey, exchange, false, nil)
	if err != nil {
		require.FailNow(t, "can't bind queue", queueName, routingKey, err)
	}

	t.Cleanup(func() {
		_, err := channel.QueueDelete(queueName, false, false, true)
		if err != nil {
			require.FailNow(t, "can't delete queue", queueName, err)
		}
	})
}

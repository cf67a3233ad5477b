package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MichalMitros/product-sync/cmd/syncer/config"
	"github.com/MichalMitros/product-sync/e2e/helpers"
	"github.com/MichalMitros/product-sync/internal/audit"
	"github.com/MichalMitros/product-sync/internal/checksum"
	"github.com/MichalMitros/product-sync/internal/connector"
	"github.com/MichalMitros/product-sync/internal/connector/httpconnector"
	"github.com/MichalMitros/product-sync/internal/handler"
	"github.com/MichalMitros/product-sync/internal/job"
	"github.com/MichalMitros/product-sync/internal/mapping"
	"github.com/MichalMitros/product-sync/internal/orchestrator"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/rabbitmq"
	"github.com/MichalMitros/product-sync/internal/platform/storage"
	pgmodels "github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/product-sync/internal/platform/storage/storagetesting"
	"github.com/MichalMitros/product-sync/internal/retry"
	"github.com/MichalMitros/product-sync/internal/syncrecord"
	"github.com/MichalMitros/product-sync/pkg/v1/commander"
	"github.com/caarlos0/env/v6"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	userAgent = "product-sync-e2e-test/0.0.1"
	exchange  = "product-sync-e2e"
	products  = 12
)

var target = models.ShopTarget(1)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	os.Exit(m.Run())
}

func TestE2E(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

type E2ETestSuite struct {
	suite.Suite
	cfg        *config.Config
	connection *amqp.Connection
	channel    *amqp.Channel
	db         *sql.DB
}

func (s *E2ETestSuite) SetupSuite() {
	var err error

	var cfg config.Config
	if err = env.Parse(&cfg); err != nil {
		s.Require().FailNow("can't parse env variables", err)
	}
	s.cfg = &cfg

	if s.connection, err = amqp.Dial(cfg.RabbitMQ.URL); err != nil {
		s.Require().FailNow("can't open RabbitMQ connection", err)
	}

	if s.channel, err = s.connection.Channel(); err != nil {
		s.Require().FailNow("can't open RabbitMQ channel", err)
	}

	helpers.DeclareRMQExchange(s.T(), s.channel, exchange)

	if s.db, err = sql.Open("postgres", cfg.DatabaseURL); err != nil {
		s.Require().FailNow("can't open Postgres connection", err)
	}

	if err = storage.Migrate(s.db); err != nil {
		s.Require().FailNow("can't migrate database", err)
	}
	storagetesting.CleanupData(s.T(), s.db)
}

func (s *E2ETestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.db)
	if err := s.db.Close(); err != nil {
		s.FailNow("can't close Postgres connection", err)
	}

	if err := s.channel.Close(); err != nil {
		s.FailNow("can't close RabbitMQ channel", err)
	}

	if err := s.connection.Close(); err != nil {
		s.FailNow("can't close RabbitMQ connection", err)
	}
}

func (s *E2ETestSuite) TestProductSync() {
	ctx, cancel := context.WithCancel(context.Background())

	// Prepare test RMQ queue
	queue := fmt.Sprintf("product-sync-e2e-test-%d", rand.Int63n(100000))
	routingKey := fmt.Sprintf("product-sync.cmd.e2e.%d", rand.Int63n(100000))
	helpers.DeclareRMQQueue(s.T(), s.channel, queue, exchange, routingKey)

	// Prepare test data and mocked target
	productIDs := helpers.InsertProducts(s.T(), s.db, products)
	srv := helpers.NewTargetServer(s.T())

	// Prepare test logger
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	// Prepare sync components
	store := storage.NewPostgres(s.db)
	sink := audit.NewLogSink(&logger)
	records := syncrecord.NewService(syncrecord.NewMachine(syncrecord.WithBackoff(retry.DefaultBackoff())), store, sink)
	lifecycle := job.NewLifecycle(sink)
	connectors := connector.NewRegistry()
	connectors.Register(target, httpconnector.NewConnector(srv.Client(), srv.URL, userAgent))
	runner := orchestrator.NewRunner(
		store,
		records,
		connectors,
		mapping.NewResolver(store),
		lifecycle,
		&logger,
		orchestrator.WithParallelism(3),
	)

	// Prepare RMQ client and commander
	rmq, err := rabbitmq.NewRabbitMQ(s.connection, exchange, 4)
	if err != nil {
		s.Require().FailNow("can't create RabbitMQ client", err)
	}
	cmd := commander.NewSyncCommander(commander.NewRabbitMQSender(rmq, routingKey))

	// Prepare and run handler
	han := handler.NewHandler(rmq, runner, store, records, lifecycle, handler.Defaults{
		RecordMaxRetries: retry.DefaultRecordMaxRetries,
		JobTimeout:       time.Hour,
		JobMaxRetries:    retry.DefaultJobMaxRetries,
		JobRetryDelay:    retry.DefaultJobDelay,
	}, &logger)
	handlerErr := han.Start(ctx, queue, 4)
	s.Require().NoError(handlerErr, "handler shouldn't return any error")

	// Track products and run first job
	for _, id := range productIDs {
		s.Require().NoError(cmd.TrackProduct(ctx, id, target.String(), string(models.DirectionToTarget)), "can't track product")
	}
	helpers.WaitForRecords(s.T(), s.db, products)

	s.Require().NoError(cmd.CreateJob(ctx, commander.JobRequest{
		Type:   string(models.JobProductSync),
		Name:   "initial export",
		Target: target.String(),
	}), "can't create job")
	s.Require().NoError(cmd.RunJob(ctx, helpers.WaitForJob(s.T(), s.db, 1).ID.String()), "can't run job")

	firstRun := helpers.WaitForJobToBeFinished(s.T(), s.db, 1)

	s.Equal(models.JobCompleted, firstRun.Status, "should complete job")
	s.Equal(products, firstRun.ProcessedItems, "should process every record")
	s.Equal(products, firstRun.SuccessfulItems, "should push every record")
	s.Equal(0, firstRun.FailedItems, "shouldn't fail any record")
	s.Equal(products, srv.Pushes(), "should push every product once")
	assertRecordsSynced(s.T(), s.db, products)

	// Change single product and run second job
	changed := productIDs[0]
	s.Require().NoError(store.ApplyProductFields(ctx, changed, models.FieldSet{checksum.FieldName: "renamed product"}), "can't change product")
	s.Require().NoError(cmd.ProductChanged(ctx, changed, checksum.FieldName), "can't send product changed")
	waitForPendingRecord(s.T(), s.db)

	s.Require().NoError(cmd.CreateJob(ctx, commander.JobRequest{
		Type:   string(models.JobProductSync),
		Name:   "incremental export",
		Target: target.String(),
	}), "can't create job")
	s.Require().NoError(cmd.RunJob(ctx, helpers.WaitForJob(s.T(), s.db, 2).ID.String()), "can't run job")

	secondRun := helpers.WaitForJobToBeFinished(s.T(), s.db, 2)

	// Cancel context to stop consumer
	cancel()
	<-rmq.Done()

	// Check results
	logs := strings.Split(buf.String(), "\n")
	logs = lo.Filter(logs, func(log string, _ int) bool { return strings.TrimSpace(log) != "" })

	s.Equal(models.JobCompleted, secondRun.Status, "should complete job")
	s.Equal(1, secondRun.ProcessedItems, "should process only changed record")
	s.Equal(1, secondRun.SuccessfulItems, "should push changed record")
	s.Equal(products+1, srv.Pushes(), "should push changed product only")
	s.Contains(
		lo.Map(lo.Values(srv.Products()), func(p models.FieldSet, _ int) any { return p[checksum.FieldName] }),
		"renamed product",
		"target should receive changed name",
	)
	assertRecordsSynced(s.T(), s.db, products)
	assertLogsContain(s.T(), []string{"job started", "job finished"}, logs)
}

// waitForPendingRecord is blocking helper function, returns once any record is pending.
func waitForPendingRecord(t *testing.T, db *sql.DB) {
	t.Helper()

	require.Eventually(t, func() bool {
		return lo.ContainsBy(storagetesting.GetSyncRecords(t, db), func(r pgmodels.SyncRecord) bool {
			return r.Status == string(models.RecordPending)
		})
	}, 30*time.Second, 250*time.Millisecond, "record wasn't marked as pending")
}

// assertRecordsSynced is helper function asserting that every record is synced and linked with target.
func assertRecordsSynced(t *testing.T, db *sql.DB, n int) {
	t.Helper()

	records := storagetesting.GetSyncRecords(t, db)
	require.Len(t, records, n, "incorrect number of records")

	for ix, record := range records {
		assert.Equalf(t, string(models.RecordSynced), record.Status, "record at index %d should be synced", ix)
		assert.NotNilf(t, record.ExternalID, "record at index %d should be linked with target", ix)
		assert.Equalf(t, record.LocalChecksum, record.LastSyncedChecksum, "record at index %d should be up to date", ix)
	}
}

// assertLogsContain is helper function which unmarshals logs json and asserts that expected messages were logged.
func assertLogsContain(t *testing.T, expected []string, actual []string) {
	t.Helper()

	messages := make([]string, 0, len(actual))
	for _, line := range actual {
		var log struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(line), &log); err != nil {
			require.FailNow(t, "can't unmarshal json log", err)
		}
		messages = append(messages, log.Message)
	}

	for _, exp := range expected {
		assert.Containsf(t, messages, exp, "message %q should be logged", exp)
	}
}

//go:build integration

package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"expenseai/internal/disbursement/models"
	"expenseai/internal/disbursement/publisher"
	"expenseai/internal/platform/config"
	"expenseai/internal/platform/kafka"
	"expenseai/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	producer *kafka.Producer
	topic    string
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	s.topic = "expenseai.expenses.test"

	producer, err := kafka.NewProducer(context.Background(), config.KafkaConfig{
		Brokers:      s.redpanda.Brokers,
		ExpenseTopic: s.topic,
		Partitions:   1,
		Replicas:     1,
	}, nil)
	s.Require().NoError(err)
	s.Require().NotNil(producer)
	s.producer = producer
}

func (s *KafkaPublisherSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close(context.Background())
	}
}

func (s *KafkaPublisherSuite) TestPublishedEventIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expense := &models.Expense{
		ExpenseID:         "EXPAB12CD34",
		IdentityKey:       "3520212345671",
		SchemeID:          "rashan_scheme",
		VendorIdentityKey: "9999999999999",
		TotalAmount:       decimal.NewFromInt(2500),
		CreatedAt:         time.Now().UTC(),
	}
	s.Require().NoError(publisher.New(s.producer).PublishExpense(ctx, expense))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().NotEmpty(records)

	s.Equal("3520212345671", string(records[0].Key))
	var event publisher.ExpenseEvent
	s.Require().NoError(json.Unmarshal(records[0].Value, &event))
	s.Equal("EXPAB12CD34", event.ExpenseID)
	s.Equal("2500.00", event.TotalAmount)
	s.False(event.IsFraudulent)
}

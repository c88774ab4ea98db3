package redis_client

import (
	"context"
	"strconv"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/cenkalti/backoff/v4"
	"github.com/idfmboard/idfmboard/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const queueConnectionTag = "idfmboard"

// Connect sets up the shared client from IDFMBOARD_REDIS_*. Without an address nothing is set up unless required.
func Connect(required bool) error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["IDFMBOARD_REDIS_ADDRESS"] == "" && !required {
		log.Info().Msg("Skipping Redis setup")
		return nil
	}

	if env["IDFMBOARD_REDIS_ADDRESS"] != "" {
		address = env["IDFMBOARD_REDIS_ADDRESS"]
	}

	if env["IDFMBOARD_REDIS_PASSWORD"] != "" {
		password = env["IDFMBOARD_REDIS_PASSWORD"]
	}

	if env["IDFMBOARD_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["IDFMBOARD_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	return ConnectWithOptions(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})
}

// ConnectWithOptions pings the server, retrying with an exponential backoff, and opens the queue connection
func ConnectWithOptions(options *redis.Options) error {
	client := redis.NewClient(options)

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = 30 * time.Second

	err := backoff.RetryNotify(func() error {
		return client.Ping(context.Background()).Err()
	}, retryBackoff, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("address", options.Addr).Dur("wait", wait).Msg("Redis not reachable yet")
	})
	if err != nil {
		client.Close()
		return err
	}

	queueConnection, err := rmq.OpenConnectionWithRedisClient(queueConnectionTag, client, nil)
	if err != nil {
		client.Close()
		return err
	}

	Client = client
	QueueConnection = queueConnection

	log.Info().Str("address", options.Addr).Int("database", options.DB).Msg("Redis client setup")

	return nil
}

// Connected is false when Connect skipped the setup
func Connected() bool {
	return Client != nil && QueueConnection != nil
}

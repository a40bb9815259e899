/*
Copyright 2025 The Timer Service Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, "", noEnv)
	require.NoError(t, err)
	assert.Equal(t, StorageInMemory, cfg.StorageDriver)
	assert.Equal(t, BrokerInMemory, cfg.BrokerDriver)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	env := map[string]string{
		"TIMER_STORAGE_DRIVER": "postgres",
		"TIMER_POSTGRES_DSN":   "postgres://localhost/timers",
		"TIMER_POLL_INTERVAL":  "30s",
	}
	getenv := func(k string) string { return env[k] }

	cfg, err := Load(nil, "", getenv)
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "postgres://localhost/timers", cfg.PostgresDSN)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	env := map[string]string{"TIMER_STORAGE_DRIVER": "postgres", "TIMER_POSTGRES_DSN": "postgres://localhost/timers"}
	getenv := func(k string) string { return env[k] }

	cfg, err := Load([]string{"-storage", "inmemory"}, "", getenv)
	require.NoError(t, err)
	assert.Equal(t, StorageInMemory, cfg.StorageDriver)
}

func TestLoadRejectsPostgresWithoutDSN(t *testing.T) {
	_, err := Load([]string{"-storage", "postgres"}, "", noEnv)
	assert.Error(t, err)
}

func TestLoadRejectsRabbitMQWithoutURL(t *testing.T) {
	_, err := Load([]string{"-broker", "rabbitmq"}, "", noEnv)
	assert.Error(t, err)
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	_, err := Load([]string{"-broker", "kafka"}, "", noEnv)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDrivers(t *testing.T) {
	_, err := Load([]string{"-storage", "sqlite"}, "", noEnv)
	assert.Error(t, err)

	_, err = Load([]string{"-broker", "sqs"}, "", noEnv)
	assert.Error(t, err)
}

func TestLoadRejectsNonPositivePollInterval(t *testing.T) {
	_, err := Load([]string{"-poll-interval", "0s"}, "", noEnv)
	assert.Error(t, err)
}

func TestLoadParsesKafkaBrokerList(t *testing.T) {
	cfg, err := Load([]string{"-broker", "kafka", "-kafka-brokers", "a:9092,b:9092"}, "", noEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
}

func TestLoadMissingEnvFileIsNotFatal(t *testing.T) {
	_, err := Load(nil, "/nonexistent/.env", noEnv)
	assert.NoError(t, err)
}

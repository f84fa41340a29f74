// FILE: lixenwraith/configurable/example/main.go
package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/lixenwraith/configurable"
)

// ProducerConfig is the typed view decoded from a snapshot
type ProducerConfig struct {
	ClientID string        `toml:"client_id"`
	Timeout  time.Duration `toml:"timeout"`
	Kafka    struct {
		BootstrapServers string `toml:"bootstrap_servers"`
		Acks             string `toml:"acks"`
	} `toml:"kafka"`
}

var logger = charmlog.NewWithOptions(os.Stdout, charmlog.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
	Level:           charmlog.DebugLevel,
})

func main() {
	// =========================================================================
	// PART 1: A base schema and an extension
	// =========================================================================
	logger.Info("➡️  PART 1: Declaring schemas")

	base := configurable.MustSchema(func(n *configurable.Node) {
		n.Setting("client_id", configurable.WithDefault("example"))
		n.Setting("timeout", configurable.WithDefault("5s"))
		n.Setting("kafka", configurable.Nested(func(k *configurable.Node) {
			k.Setting("bootstrap_servers", configurable.WithDefault("127.0.0.1:9092"))
			k.Setting("acks", configurable.WithDefault("all"))
		}))
	})

	extended, err := base.Extend(func(n *configurable.Node) {
		n.Setting("metrics_enabled", configurable.WithDefault(true))
	})
	if err != nil {
		logger.Fatal("extend failed", "err", err)
	}

	if _, err := base.Config().Get("metrics_enabled"); errors.Is(err, configurable.ErrUnknownSetting) {
		logger.Info("✅ Base schema does not see settings added by the extension")
	}
	logger.Info("Extension paths", "paths", extended.Config().Paths())

	// =========================================================================
	// PART 2: Instances keep their own values
	// =========================================================================
	logger.Info("➡️  PART 2: Instances")

	first, _ := base.New()
	second, _ := base.New()
	if _, err := first.Configure(func(n *configurable.Node) error {
		return n.SetPath("kafka.acks", "1")
	}); err != nil {
		logger.Fatal("configure failed", "err", err)
	}
	acks1, _ := first.Config().String("kafka.acks")
	acks2, _ := second.Config().String("kafka.acks")
	logger.Info("Instance values", "first", acks1, "second", acks2)

	// =========================================================================
	// PART 3: Lazy settings retry until a value shows up
	// =========================================================================
	logger.Info("➡️  PART 3: Lazy retry")

	token := ""
	lazy := configurable.MustSchema(func(n *configurable.Node) {
		n.Setting("token", configurable.Lazy(), configurable.WithFactory(func() (any, error) {
			if token == "" {
				return nil, nil
			}
			return token, nil
		}))
	})
	for i, next := range []string{"", "abc", "xyz"} {
		token = next
		value, err := lazy.Config().Get("token")
		if err != nil {
			logger.Fatal("lazy read failed", "err", err)
		}
		logger.Info("Lazy read", "attempt", i+1, "source", next, "value", value)
	}

	// =========================================================================
	// PART 4: Embedding and overrides from a file
	// =========================================================================
	logger.Info("➡️  PART 4: Embedding and overrides")

	embedding := configurable.MustSchema(func(n *configurable.Node) {
		n.Setting("producer", configurable.WithDefault(base.Config()))
		n.Setting("region", configurable.WithDefault("eu-west-1"))
	})
	if err := embedding.Config().Dump(os.Stdout); err != nil {
		logger.Fatal("dump failed", "err", err)
	}

	dir, err := os.MkdirTemp("", "configurable-example")
	if err != nil {
		logger.Fatal("temp dir failed", "err", err)
	}
	defer os.RemoveAll(dir)

	overrides := filepath.Join(dir, "overrides.yaml")
	data := []byte("client_id: from-file\ntimeout: 30s\nkafka:\n  acks: \"0\"\n")
	if err := os.WriteFile(overrides, data, 0644); err != nil {
		logger.Fatal("write failed", "err", err)
	}

	inst, _ := base.New()
	var cfg ProducerConfig
	err = configurable.NewBuilder(inst.Config()).
		WithFile(overrides).
		WithArgs([]string{"--kafka.bootstrap_servers=broker:9092"}).
		WithEnvPrefix("EXAMPLE_").
		BuildAndScan(&cfg)
	if err != nil {
		logger.Fatal("build failed", "err", err)
	}
	logger.Info("Decoded",
		"client_id", cfg.ClientID,
		"timeout", cfg.Timeout,
		"servers", cfg.Kafka.BootstrapServers,
		"acks", cfg.Kafka.Acks)

	logger.Debug(inst.Config().Debug())
}

// File: lixenwraith/configurable/doc.go

// Package configurable provides hierarchical, lazily compiled settings trees
// for Go applications. A tree is declared once on a Schema and every Instance
// or extended Schema gets its own independent copy with its own values.
//
// Features:
//   - Leaf settings with defaults, constructors and factories
//   - Lazy settings that retry until they produce a value, then stay pinned
//   - Nested scopes and embedding of whole trees as defaults
//   - Schema inheritance through Extend, per-object trees through New
//   - Late declarations readable immediately after Setting
//   - Ordered immutable snapshots with TOML, JSON and YAML encoding
//   - Overrides from files, environment variables and command-line arguments
//   - Decoding snapshots into structs via mapstructure
//   - Thread-safe reads and writes using sync.RWMutex
//
// Quick Start:
//
//	schema := configurable.MustSchema(func(n *configurable.Node) {
//	    n.Setting("client_id", configurable.WithDefault("app"))
//	    n.Setting("kafka", configurable.Nested(func(k *configurable.Node) {
//	        k.Setting("bootstrap_servers", configurable.WithDefault("localhost:9092"))
//	        k.Setting("topic", configurable.Lazy(), configurable.WithFactory(lookupTopic))
//	    }))
//	})
//
//	inst, _ := schema.New()
//	cfg, err := configurable.Quick(inst.Config(), "MYAPP_", "overrides.toml")
//	if err != nil && !errors.Is(err, configurable.ErrOverridesNotFound) {
//	    log.Fatal(err)
//	}
//
//	servers, _ := cfg.String("kafka.bootstrap_servers")
//
// Override Precedence (highest to lowest):
//  1. Command-line arguments (--kafka.bootstrap_servers=broker:9092)
//  2. Environment variables (MYAPP_KAFKA_BOOTSTRAP_SERVERS=broker:9092)
//  3. Overrides file (overrides.toml)
//  4. Declared defaults and constructors
//
// Custom Precedence:
//
//	cfg, err := configurable.NewBuilder(inst.Config()).
//	    WithSources(
//	        configurable.SourceEnv, // Environment the highest priority
//	        configurable.SourceCLI,
//	        configurable.SourceFile,
//	    ).
//	    Build()
//
// Thread Safety:
// Reads and writes on a node are guarded by a read-write mutex. Lazy
// constructors run outside the lock, so under contention a constructor may
// run more than once and the first value stored wins.
package configurable

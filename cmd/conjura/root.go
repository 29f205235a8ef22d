package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/samvad-hq/conjura/internal/config"
	"github.com/samvad-hq/conjura/internal/logger"
	"github.com/samvad-hq/conjura/pkg/calls"
	"github.com/samvad-hq/conjura/pkg/conjura"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// app carries the state shared by every subcommand.
type app struct {
	configFile string
	baseURL    string
	logLevel   string
	callsFile  string
	metrics    bool

	stdout io.Writer
	stderr io.Writer

	cfg      *config.Config
	log      logger.Logger
	client   *conjura.Client
	registry *prometheus.Registry
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, log: logger.NopLogger{}}

	root := &cobra.Command{
		Use:   "conjura",
		Short: "Call envelope-style JSON backends",
		Long: `conjura sends requests to a backend that answers with {"data": ...} or {"error": ...}.
The base URL comes from --base-url, the config file, CONJURA_API_URL, the runtime
hint, VITE_BE_CORE_URL/CONJURA_BASE_URL/BE_CORE_URL/API_BASE_URL or the .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (YAML, JSON or TOML)")
	pf.StringVar(&a.baseURL, "base-url", "", "Backend base URL")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.callsFile, "calls", "", "Calls definition file")
	pf.BoolVar(&a.metrics, "metrics", false, "Print call counters to stderr after the call")

	root.AddCommand(
		a.callCmd(calls.FacadeInvoke, "Send a request and print the raw envelope"),
		a.callCmd(calls.FacadeSummon, "Send a request and print the data, failing on backend errors"),
		a.callCmd(calls.FacadeWhisper, "Send a fire-and-forget request and print {ok, status}"),
		a.fetchCmd(),
		a.runCmd(),
		a.listCmd(),
	)
	return root
}

// init loads configuration and builds the client.
func (a *app) init() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = strings.ToLower(a.logLevel)
	}
	if a.callsFile != "" {
		cfg.CallsFile = a.callsFile
	}
	log := logger.New(cfg, a.stderr)

	baseURL := a.baseURL
	if baseURL == "" {
		baseURL = cfg.APIURL
	}
	conjura.SetBaseURLHint(cfg.BaseURLHint)
	settings := conjura.NewSettings(
		conjura.WithBaseURL(baseURL),
		conjura.WithDefaultHeaders(cfg.DefaultHeaders),
		conjura.WithBuildEnv(cfg.BuildEnv),
	)

	opts := []conjura.ClientOption{conjura.WithSettings(settings), conjura.WithLogger(log)}
	if a.metrics {
		a.registry = prometheus.NewRegistry()
		opts = append(opts, conjura.WithMetrics(conjura.NewMetrics(a.registry)))
	}

	a.cfg = cfg
	a.log = log
	a.client = conjura.New(opts...)

	log.DebugObj("client configured", "client", map[string]any{
		"base_url":        settings.BaseURL(),
		"default_headers": len(cfg.DefaultHeaders),
		"build_env_keys":  len(cfg.BuildEnv),
	})
	return nil
}

// callFlags are the per-call flags shared by invoke, summon and whisper.
type callFlags struct {
	method    string
	errorCode string
	authKey   string
	query     []string
	cookies   []string
	payload   string
	client    bool
}

func (a *app) callCmd(facade, short string) *cobra.Command {
	var f callFlags
	cmd := &cobra.Command{
		Use:   facade + " <path>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := f.definition(facade, args[0])
			if err != nil {
				return err
			}
			return a.execute(cmd.Context(), def)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.method, "method", "X", "GET", "HTTP method")
	flags.StringVar(&f.authKey, "auth-key", "", "Bearer token")
	flags.StringArrayVarP(&f.query, "query", "q", nil, "Query parameter key=value (repeatable)")
	flags.StringArrayVar(&f.cookies, "cookie", nil, "Cookie name=value to forward (repeatable)")
	flags.StringVarP(&f.payload, "payload", "d", "", "JSON or YAML file sent as the request body")
	if facade == calls.FacadeWhisper {
		flags.BoolVar(&f.client, "client", false, "Treat the call as client-side and include credentials")
	} else {
		flags.StringVar(&f.errorCode, "error-code", "cli", "Error code attached to failures")
	}
	return cmd
}

// definition turns flags into a normalized call definition.
func (f *callFlags) definition(facade, path string) (calls.Definition, error) {
	query, err := parsePairs(f.query)
	if err != nil {
		return calls.Definition{}, fmt.Errorf("--query: %w", err)
	}
	cookieValues, err := parsePairs(f.cookies)
	if err != nil {
		return calls.Definition{}, fmt.Errorf("--cookie: %w", err)
	}
	cookies := make(map[string]string, len(cookieValues))
	for k, v := range cookieValues {
		vals, _ := v.([]string)
		cookies[k] = vals[len(vals)-1]
	}

	def := calls.Definition{
		ID:        facade,
		Facade:    facade,
		Path:      path,
		Method:    f.method,
		ErrorCode: f.errorCode,
		AuthKey:   f.authKey,
		Client:    f.client,
		Query:     query,
		Cookies:   cookies,
	}
	if f.payload != "" {
		payload, err := readPayload(f.payload)
		if err != nil {
			return calls.Definition{}, err
		}
		def.Payload = payload
	}
	return calls.Normalize(def)
}

func (a *app) fetchCmd() *cobra.Command {
	var errorCode string
	cmd := &cobra.Command{
		Use:   "fetch <absolute-url>",
		Short: "Fetch a static JSON document (.json is appended)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := calls.Normalize(calls.Definition{
				ID:        "fetch",
				Facade:    calls.FacadeStatic,
				Path:      args[0],
				ErrorCode: errorCode,
			})
			if err != nil {
				return err
			}
			return a.execute(cmd.Context(), def)
		},
	}
	cmd.Flags().StringVar(&errorCode, "error-code", "", "Error code attached to failures (default summonJSON)")
	return cmd
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <id>",
		Short: "Run a call declared in the calls file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := calls.LoadRegistry(a.cfg.CallsFile)
			if err != nil {
				return fmt.Errorf("load calls: %w", err)
			}
			def, ok := reg.ByID(args[0])
			if !ok {
				return fmt.Errorf("no call %q in %s", args[0], a.cfg.CallsFile)
			}
			return a.execute(cmd.Context(), def)
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List calls declared in the calls file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			reg, err := calls.LoadRegistry(a.cfg.CallsFile)
			if err != nil {
				return fmt.Errorf("load calls: %w", err)
			}
			for _, def := range reg.All() {
				fmt.Fprintf(a.stdout, "%s\t%s\t%s %s\n", def.ID, def.Facade, def.Method, def.Path)
			}
			return nil
		},
	}
}

// execute runs def and prints its outcome as indented JSON.
func (a *app) execute(ctx context.Context, def calls.Definition) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := calls.Run(ctx, a.client, def)
	a.dumpMetrics()
	if err != nil {
		a.log.ErrorObj("call failed", "call", map[string]any{
			"id":     def.ID,
			"facade": def.Facade,
			"path":   def.Path,
			"error":  err.Error(),
		})
		return err
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// dumpMetrics writes the call counters in the Prometheus text format.
func (a *app) dumpMetrics() {
	if a.registry == nil {
		return
	}
	families, err := a.registry.Gather()
	if err != nil {
		a.log.WarnObj("gather metrics failed", "metrics", map[string]any{"error": err.Error()})
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(a.stderr, mf); err != nil {
			a.log.WarnObj("write metrics failed", "metrics", map[string]any{"error": err.Error()})
			return
		}
	}
}

// parsePairs splits key=value flags; repeated keys collect every value.
func parsePairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string][]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", p)
		}
		values[k] = append(values[k], v)
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out, nil
}

// readPayload decodes a JSON or YAML file; YAML is a superset of JSON.
func readPayload(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	var payload any
	if err := yaml.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

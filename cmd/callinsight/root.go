package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asp616848/live-call-insight/internal/cache"
	"github.com/asp616848/live-call-insight/internal/config"
	"github.com/asp616848/live-call-insight/internal/extractor"
	"github.com/asp616848/live-call-insight/internal/logger"
	"github.com/asp616848/live-call-insight/internal/processor"
	"github.com/asp616848/live-call-insight/internal/sentiment"
	"github.com/asp616848/live-call-insight/internal/transcript"
	"github.com/asp616848/live-call-insight/internal/types"
)

var (
	configPath string
	jsonOutput bool

	cfg *config.Root
)

var rootCmd = &cobra.Command{
	Use:   "callinsight",
	Short: "Callinsight - call transcript metrics and sentiment",
	Long: `Callinsight turns raw voice-agent call logs into conversation records,
call metrics, per-sentence sentiment and entity analyses.

Results are cached under the cache directory keyed by each source file's
name, modification time and content, so edited files are recomputed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default $CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

// newLLM returns nil when no oracle is configured; callers then fall back
// to heuristic scoring and skip annotation.
func newLLM() (extractor.LLM, error) {
	if cfg.Oracle.UseMock {
		return extractor.NewMockLLM(""), nil
	}
	if cfg.Oracle.APIKey == "" {
		logger.New().Component("cli").Warn("LLM_API_KEY not set, oracle disabled")
		return nil, nil
	}
	llmCfg := extractor.DefaultLLMConfig()
	llmCfg.BaseURL = cfg.Oracle.BaseURL
	llmCfg.APIKey = cfg.Oracle.APIKey
	llmCfg.Model = cfg.Oracle.Model
	llmCfg.MaxRetryTime = cfg.Oracle.MaxRetryTime
	llm, err := extractor.NewOpenAILLM(llmCfg)
	if err != nil {
		return nil, err
	}
	return llm, nil
}

func openCache(namespace string) (*cache.DiskCache, error) {
	return cache.NewDiskCache(cfg.Paths.Cache, namespace)
}

func newProcessor() (*processor.Processor, error) {
	llm, err := newLLM()
	if err != nil {
		return nil, err
	}
	var oracle sentiment.Oracle
	if llm != nil {
		oracle = sentiment.NewLLMOracle(llm)
	}

	sc, err := openCache(processor.NamespaceSentiment)
	if err != nil {
		return nil, err
	}
	ac, err := openCache(processor.NamespaceAnalysis)
	if err != nil {
		return nil, err
	}
	return processor.New(processor.Deps{
		Parser: transcript.NewParser(transcript.Options{
			AIMarker:    cfg.Parser.AIMarker,
			NoiseMarker: cfg.Parser.NoiseMarker,
			MergeGap:    cfg.Parser.MergeGap,
		}),
		LLM:              llm,
		Sentiment:        sentiment.NewAdapter(oracle, sentiment.WithTimeout(cfg.Oracle.Timeout)),
		SentimentCache:   sc,
		AnalysisCache:    ac,
		Memo:             cache.NewMemo[types.SentimentSeries](cfg.Cache.MemoCapacity),
		ConversationsDir: cfg.Paths.Conversations,
		OracleTimeout:    cfg.Oracle.Timeout,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

package config

// Policy defaults carried from the product configuration: the boost step and
// cap (5% per match, 20% total) and the memory token budgets (3000 chat,
// 1500 evaluation) are operator-tunable, with no derivation beyond the
// shipped values.
const (
	DefaultChunkSize             = 512
	DefaultChunkOverlap          = 50
	DefaultTopKCandidates        = 10
	DefaultTopN                  = 3
	DefaultBoostPerMatch         = 0.05
	DefaultBoostCap              = 0.20
	DefaultChatTokenBudget       = 3000
	DefaultEvaluationTokenBudget = 1500
	DefaultSimilarityThreshold   = 0.7
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/hireflow/data/db/candidates.db"
	}
	if cfg.Storage.VectorIndexPath == "" {
		cfg.Storage.VectorIndexPath = "/usr/local/var/hireflow/data/indices/vectors.idx"
	}
	if cfg.Storage.KeywordIndexPath == "" {
		cfg.Storage.KeywordIndexPath = "/usr/local/var/hireflow/data/indices/keywords"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/hireflow/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.ModelName == "" {
		switch cfg.Embedding.Provider {
		case "gemini":
			cfg.Embedding.ModelName = "models/embedding-001"
		default:
			cfg.Embedding.ModelName = "all-MiniLM-L6-v2"
		}
	}
	if cfg.Embedding.Dimensions == 0 {
		if cfg.Embedding.Provider == "gemini" {
			cfg.Embedding.Dimensions = 768
		} else {
			cfg.Embedding.Dimensions = 384
		}
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Search.TopKCandidates == 0 {
		cfg.Search.TopKCandidates = DefaultTopKCandidates
	}
	if cfg.Search.TopN == 0 {
		cfg.Search.TopN = DefaultTopN
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.ChunkSize == 0 {
		cfg.Search.ChunkSize = DefaultChunkSize
	}
	if cfg.Search.ChunkOverlap == 0 {
		cfg.Search.ChunkOverlap = DefaultChunkOverlap
	}
	if cfg.Search.BoostPerMatch == 0 {
		cfg.Search.BoostPerMatch = DefaultBoostPerMatch
	}
	if cfg.Search.BoostCap == 0 {
		cfg.Search.BoostCap = DefaultBoostCap
	}
	if cfg.Search.SimilarityThreshold == 0 {
		cfg.Search.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.Chat.TokenBudget == 0 {
		cfg.Chat.TokenBudget = DefaultChatTokenBudget
	}
	if cfg.Chat.EvaluationTokenBudget == 0 {
		cfg.Chat.EvaluationTokenBudget = DefaultEvaluationTokenBudget
	}
	if cfg.Chat.HistoryTurns == 0 {
		cfg.Chat.HistoryTurns = 6
	}
	if cfg.Chat.ContextTopK == 0 {
		cfg.Chat.ContextTopK = 5
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-2.5-flash"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 120
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pdf", ".docx", ".xlsx", ".txt", ".md"}
	}
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}

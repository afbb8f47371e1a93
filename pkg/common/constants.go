package common

const (
	StorageDriverFile     = "file"
	StorageDriverMemory   = "memory"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"

	DefaultPortfolioKey = "quantdesk_portfolio"
	RedisKeyPrefix      = "quantdesk:kv:"

	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"
)

package config

// Fixed default paths for persisted artifacts. All are overridable via the
// config file; the index paths additionally via VECTOR_INDEX_PATH and METADATA_PATH.
const (
	DefaultVectorPath      = "/usr/local/var/kotae/data/index/vectors.bin"
	DefaultMetadataPath    = "/usr/local/var/kotae/data/index/metadata.msgpack"
	DefaultDatabasePath    = "/usr/local/var/kotae/data/db/documents.db"
	DefaultKeywordPath     = "/usr/local/var/kotae/data/indices/keyword.bleve"
	DefaultEmbedModelPath  = "/usr/local/var/kotae/data/models/all-MiniLM-L6-v2.onnx"
	DefaultRerankModelPath = "/usr/local/var/kotae/data/models/ms-marco-MiniLM-L-6-v2.onnx"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Index.VectorPath == "" {
		cfg.Index.VectorPath = DefaultVectorPath
	}
	if cfg.Index.MetadataPath == "" {
		cfg.Index.MetadataPath = DefaultMetadataPath
	}
	if cfg.Embedding.RemoteModel == "" {
		cfg.Embedding.RemoteModel = "models/embedding-001"
	}
	if cfg.Embedding.LocalModelPath == "" {
		cfg.Embedding.LocalModelPath = DefaultEmbedModelPath
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Generation.RemoteModel == "" {
		cfg.Generation.RemoteModel = "gemini-pro"
	}
	if cfg.Generation.LocalEndpoint == "" {
		cfg.Generation.LocalEndpoint = "http://localhost:11434/v1"
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 200
	}
	if cfg.Rerank.ModelPath == "" {
		cfg.Rerank.ModelPath = DefaultRerankModelPath
	}
	if cfg.Rerank.MaxTokens == 0 {
		cfg.Rerank.MaxTokens = 256
	}
	if cfg.Chunking.Window == 0 {
		cfg.Chunking.Window = 800
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 100
	}
	if cfg.Registry.DatabasePath == "" {
		cfg.Registry.DatabasePath = DefaultDatabasePath
	}
	if cfg.Keyword.IndexPath == "" {
		cfg.Keyword.IndexPath = DefaultKeywordPath
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".md", ".pdf", ".html", ".htm", ".docx", ".xlsx"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}

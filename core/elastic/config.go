package elastic

// Config holds configuration for the Elasticsearch connection.
type Config struct {
	// Host is the URL of the Elasticsearch service, including scheme.
	Host string `mapstructure:"host" default:"http://localhost:9200"`
	// ScrollSize is the number of documents fetched per scroll page.
	ScrollSize int `mapstructure:"scroll_size" default:"1000"`
	// ScrollTime is the server-side scroll context lifetime (e.g. 2m, 30s).
	ScrollTime string `mapstructure:"scroll_time" default:"2m"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

package config

// APIConfig holds settings for the local HTTP API. When Token is set the
// history and command endpoints require it as a bearer token.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
	Token   string `json:"token"`
}

func (c *APIConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8780"
	}
}

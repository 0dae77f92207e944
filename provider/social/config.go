package social

// Config describes how to read a user profile from a provider's API.
type Config struct {
	// Name is the registry identifier and the username prefix of
	// principals created on first login.
	Name string `yaml:"name" mapstructure:"name"`
	// ProfileURL is fetched with the client's access token.
	ProfileURL string `yaml:"profile_url" mapstructure:"profile_url"`
	// Fields is sent as the "fields" query parameter when set.
	Fields []string `yaml:"fields" mapstructure:"fields"`

	IDField    string `yaml:"id_field" mapstructure:"id_field"`
	EmailField string `yaml:"email_field" mapstructure:"email_field"`
	NameField  string `yaml:"name_field" mapstructure:"name_field"`
}

// ApplyDefaults fills unset profile field names.
func (c *Config) ApplyDefaults() {
	if c.IDField == "" {
		c.IDField = "id"
	}
	if c.EmailField == "" {
		c.EmailField = "email"
	}
	if c.NameField == "" {
		c.NameField = "name"
	}
}

// Facebook returns the Graph API preset.
func Facebook() Config {
	return Config{
		Name:       "facebook",
		ProfileURL: "https://graph.facebook.com/me",
		Fields:     []string{"id", "name", "email"},
	}
}

// Google returns the OAuth2 userinfo preset.
func Google() Config {
	return Config{
		Name:       "google",
		ProfileURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// GitHub returns the REST user endpoint preset.
func GitHub() Config {
	return Config{
		Name:       "github",
		ProfileURL: "https://api.github.com/user",
		NameField:  "login",
	}
}

// Preset returns the built-in configuration for name.
func Preset(name string) (Config, bool) {
	switch name {
	case "facebook":
		return Facebook(), true
	case "google":
		return Google(), true
	case "github":
		return GitHub(), true
	}
	return Config{}, false
}

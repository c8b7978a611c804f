package config

// MailConfig holds the SMTP relay and the fixed data printed on the
// confirmation document.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	SSL         bool
	VenueLabel  string
	VenueMapURL string
	LogoPath    string
}

// LoadMailConfig reads the SMTP relay and venue settings.  MAIL_SERVER and
// MAIL_DEFAULT_SENDER are required.
func LoadMailConfig() MailConfig {
	return MailConfig{
		Host:        must("MAIL_SERVER"),
		Port:        envInt("MAIL_PORT", 587),
		Username:    envStr("MAIL_USERNAME", ""),
		Password:    envStr("MAIL_PASSWORD", ""),
		From:        must("MAIL_DEFAULT_SENDER"),
		SSL:         envBool("MAIL_USE_SSL", false),
		VenueLabel:  envStr("VENUE_LABEL", "Institut Torii"),
		VenueMapURL: envStr("VENUE_MAP_URL", "https://maps.app.goo.gl/NRyzbD337Rrkokh5A"),
		LogoPath:    envStr("DOC_LOGO_PATH", "logo_horizontal.png"),
	}
}

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	req := require.New(t)
	t.Setenv("PORT", "9001")
	t.Setenv("HEARTBEAT_INTERVAL", "5s")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,*")
	t.Setenv("VALID_TOKENS", "one,two")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENABLE_ROBOTS", "false")

	cfg, err := LoadConfig()
	req.NoError(err)
	req.Equal(9001, cfg.Port)
	req.Equal(5*time.Second, cfg.HeartbeatInterval)
	req.Equal([]string{"https://a.example", "*"}, cfg.Origins())
	req.Equal([]string{"one", "two"}, cfg.Tokens())
	req.Equal("debug", cfg.LogLevel)
	req.False(cfg.EnableRobots)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"port out of range": {"PORT": "70000"},
		"unknown log level": {"LOG_LEVEL": "verbose"},
		"zero history":      {"MAX_MESSAGES_PER_ROOM": "0"},
		"negative cap":      {"MAX_CONNECTIONS_PER_ROOM": "-1"},
		"unparsable number": {"MAX_MESSAGE_SIZE": "big"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	req := require.New(t)
	cfg := NewConfig()

	req.Equal("0.0.0.0:8000", cfg.Addr())
	req.Equal(DefaultAllowedOrigins, cfg.Origins())
	req.Equal(DefaultValidTokens, cfg.Tokens())
	req.Equal(50, cfg.MaxMessagesPerRoom)
	req.Equal("observer", cfg.HeartbeatRoom)
	req.True(cfg.EnableChatAssistant)
	req.NoError(validate.Struct(cfg))
}

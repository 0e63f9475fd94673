package state

import (
	"net/http"
	"time"

	"github.com/c0pper/data-driven-blog/internal/config"
	"github.com/c0pper/data-driven-blog/internal/immich"
	"github.com/c0pper/data-driven-blog/internal/journiv"
	"github.com/c0pper/data-driven-blog/internal/logging"
)

type AppState struct {
	cfg     config.Config
	started time.Time

	Logger  *logging.Logger
	HTTP    *http.Client
	Journal *journiv.Client
	Photos  *immich.Client
}

func NewAppState(cfg config.Config, logger *logging.Logger, httpClient *http.Client) *AppState {
	return &AppState{
		cfg:     cfg,
		started: time.Now(),
		Logger:  logger,
		HTTP:    httpClient,
		Journal: journiv.NewClient(httpClient, cfg.Journiv, logger),
		Photos:  immich.NewClient(httpClient, cfg.Immich, logger),
	}
}

func (s *AppState) GetConfig() config.Config {
	cfg := s.cfg
	cfg.CORSAllowOrigins = append([]string(nil), s.cfg.CORSAllowOrigins...)
	return cfg
}

// DefaultJournalID is the journal served when a request names none.
func (s *AppState) DefaultJournalID() string {
	return s.cfg.Journiv.JournalID
}

func (s *AppState) Uptime() time.Duration {
	return time.Since(s.started)
}

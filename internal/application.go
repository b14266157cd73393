package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/juancabrera0513/stop/internal/bot"
	"github.com/juancabrera0513/stop/internal/config"
	"github.com/juancabrera0513/stop/internal/dictionary"
	"github.com/juancabrera0513/stop/internal/entity"
	"github.com/juancabrera0513/stop/internal/repository"
	"github.com/juancabrera0513/stop/internal/repository/storage"
	"github.com/juancabrera0513/stop/internal/stopgame"
	"github.com/juancabrera0513/stop/internal/usecase"
	"github.com/juancabrera0513/stop/transport/rest"
	"github.com/juancabrera0513/stop/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	dict, err := loadDictionary(conf)
	if err != nil {
		return fmt.Errorf("could not load dictionary: %w", err)
	}

	matchRepo := repository.NewMatchRepository(redisStorage)
	sessionRepo := repository.NewSessionRepository(redisStorage)

	botModel := bot.NewModel(dict)
	effects := &hostEffects{logger: logger.With("component", "effects")}
	controller := stopgame.NewController(logger, dict, botModel, effects, conf.Game.RoundTimeLimit)
	matchManager := usecase.NewMatchManager(logger, matchRepo, sessionRepo, controller)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, matchManager, conf.Game)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func loadDictionary(conf *config.Config) (*dictionary.Dictionary, error) {
	if conf.DictionaryPath == "" {
		return dictionary.Embedded(), nil
	}

	dict, err := dictionary.Load(conf.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary from %s: %w", conf.DictionaryPath, err)
	}

	return dict, nil
}

// hostEffects stands in for the host's audio/haptic hooks. Failures stay
// local: transitions must never be blocked or failed by a side effect.
type hostEffects struct {
	logger *slog.Logger
}

func (that *hostEffects) RoundStarted(match *entity.Match) {
	if !match.SoundEnabled {
		return
	}
	that.logger.Debug("play round music", "match", match.ID, "round", match.RoundNumber)
}

func (that *hostEffects) RoundStopped(match *entity.Match, stoppedBy string) {
	if match.SoundEnabled {
		that.logger.Debug("play stop sfx", "match", match.ID, "stopped_by", stoppedBy)
	}
	if match.VibrationEnabled {
		that.logger.Debug("vibrate", "match", match.ID)
	}
}

func (that *hostEffects) MatchFinished(match *entity.Match) {
	if !match.SoundEnabled {
		return
	}
	that.logger.Debug("play menu music", "match", match.ID)
}

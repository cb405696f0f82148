package internal

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dcrodman/hangman/internal/core"
	"github.com/dcrodman/hangman/internal/core/cache"
	"github.com/dcrodman/hangman/internal/core/data"
	"github.com/dcrodman/hangman/internal/core/debug"
	"github.com/dcrodman/hangman/internal/server"
	"github.com/dcrodman/hangman/internal/web"
	"github.com/dcrodman/hangman/internal/words"
)

// Controller is the main entrypoint for the hangman server. It's responsible for
// initializing any shared resources (such as the word list, database, and logging),
// defining the servers, and launching everything.
type Controller struct {
	Config *core.Config

	logger   *logrus.Logger
	logFile  io.Closer
	db       *gorm.DB
	recorder *server.Recorder
	wg       sync.WaitGroup

	stopRecorder context.CancelFunc
}

// Start runs the game server until ctx is cancelled. Errors loading the word list or
// opening the socket are returned before any client is accepted.
func (c *Controller) Start(ctx context.Context) error {
	var err error
	// Set up the logger, which will be used by all components.
	c.logger, c.logFile, err = core.NewLogger(c.Config)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	defer c.Shutdown()

	bank, err := words.Load(c.Config.WordFile, words.Options{
		MaxWords:      c.Config.MaxWords,
		MaxWordLength: c.Config.MaxWordLength,
	})
	if err != nil {
		return fmt.Errorf("error loading word list: %w", err)
	}
	c.logger.Infof("loaded %d words from %s", bank.Len(), c.Config.WordFile)

	// Start any debug utilities if we're configured to do so.
	if c.Config.Debugging.Enabled {
		debug.StartPprofServer(c.logger, c.Config.Debugging.PprofPort)
	}

	if err := c.initDatabase(); err != nil {
		return err
	}

	// Everything started below stops when the game server does.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &server.Server{
		Config:   c.Config,
		Logger:   c.logger,
		Bank:     bank,
		Recorder: c.recorder,
	}
	if c.Config.RecentWordTTL > 0 {
		srv.Recent = cache.New(c.Config.RecentWordTTL)
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	if c.Config.Web.HTTPPort > 0 {
		status := web.New(srv, c.db, c.logger)
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := status.Start(ctx, c.Config.Web.HTTPPort); err != nil {
				c.logger.Errorf("%v", err)
			}
		}()
	}

	return srv.Serve(ctx)
}

// initDatabase opens the result store if one is configured and starts the recorder.
func (c *Controller) initDatabase() error {
	if c.Config.Database.Engine == "" {
		return nil
	}

	var err error
	c.db, err = data.Open(
		c.Config.Database.Engine,
		c.Config.Database.Filename,
		c.Config.DatabaseURL(),
		c.Config.Debugging.DatabaseLoggingEnabled,
	)
	if err != nil {
		return err
	}

	// The recorder outlives the game server so that sessions aborted during shutdown
	// are still written.
	c.recorder = server.NewRecorder(c.db, c.logger, c.Config.MaxConnections*4)
	recorderCtx, cancel := context.WithCancel(context.Background())
	c.stopRecorder = cancel
	go c.recorder.Run(recorderCtx)

	return nil
}

// Shutdown flushes the recorder and releases the database and log file once the
// servers have stopped.
func (c *Controller) Shutdown() {
	c.wg.Wait()

	if c.recorder != nil {
		c.stopRecorder()
		c.recorder.Wait()
	}
	if c.db != nil {
		if err := data.Close(c.db); err != nil {
			c.logger.Warnf("%v", err)
		}
	}
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			fmt.Println("error closing log file:", err)
		}
	}
}

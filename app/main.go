package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tg-censor/tg-censor/app/bot"
	"github.com/tg-censor/tg-censor/app/events"
	"github.com/tg-censor/tg-censor/app/storage"
	"github.com/tg-censor/tg-censor/app/storage/engine"
	"github.com/tg-censor/tg-censor/app/webapi"
	"github.com/tg-censor/tg-censor/lib/censor"
)

type options struct {
	Telegram struct {
		Token        string        `long:"token" env:"TOKEN" description:"telegram bot token, overrides token files"`
		Group        string        `long:"group" env:"GROUP" required:"true" description:"group name/id"`
		Timeout      time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"http client timeout for telegram" `
		IdleDuration time.Duration `long:"idle" env:"IDLE" default:"30s" description:"idle duration"`
	} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

	Files struct {
		RulesFile      string        `long:"rules" env:"RULES" default:"appdata.bin" description:"censor rules file"`
		DictionaryFile string        `long:"dictionary" env:"DICTIONARY" default:"" description:"allow dictionary file, empty uses the built-in list"`
		WatchInterval  time.Duration `long:"watch-interval" env:"WATCH_INTERVAL" default:"5s" description:"dictionary file watch interval"`
		Backup         bool          `long:"backup" env:"BACKUP" description:"keep a backup copy of the rules file on every save"`
	} `group:"files" namespace:"files" env-namespace:"FILES"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable suppression rotated logs"`
		FileName   string `long:"file" env:"FILE"  default:"tg-censor.log" description:"location of suppression log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Server struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable web API server"`
		ListenAddr string `long:"listen" env:"LISTEN" default:":8080" description:"web API listen address"`
		AuthPasswd string `long:"auth" env:"AUTH" default:"auto" description:"basic auth password for user tg-censor, auto-generated if set to auto"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	DB struct {
		Connection string `long:"connection" env:"CONNECTION" default:"" description:"suppression audit db, sqlite file or postgres URL, disabled if not set"`
	} `group:"db" namespace:"db" env-namespace:"DB"`

	Message struct {
		Startup string `long:"startup" env:"STARTUP" default:"" description:"startup message"`
	} `group:"message" namespace:"message" env-namespace:"MESSAGE"`

	CommandPrefix  string            `long:"command-prefix" env:"COMMAND_PREFIX" default:"c!" description:"prefix for management commands"`
	SeedAdmin      string            `long:"seed-admin" env:"SEED_ADMIN" default:"mip5:231963552292929546" description:"seed admin as name:id, always present"`
	SuperUsers     events.SuperUsers `long:"super" env:"SUPER_USER" env-delim:"," description:"super-users"`
	NotifyThrottle time.Duration     `long:"notify-throttle" env:"NOTIFY_THROTTLE" default:"1m" description:"min interval between deletion DMs to the same user"`

	Dry   bool `long:"dry" env:"DRY" description:"dry mode, no deletions"`
	Dbg   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	TGDbg bool `long:"tg-dbg" env:"TG_DEBUG" description:"telegram debug mode"`
}

// tokenFiles are the candidate token locations probed in order when the token
// flag is not set. The first readable, non-empty file wins.
var tokenFiles = []string{"env/key", "../../env/key"}

var revision = "local"

func main() {
	fmt.Printf("tg-censor %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	p.SubcommandsOptional = true
	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	// a bot without a token can't do anything, refuse to start without one
	if opts.Telegram.Token == "" {
		token, err := findToken(tokenFiles...)
		if err != nil {
			log.Printf("[ERROR] %v", err)
			os.Exit(1)
		}
		opts.Telegram.Token = token
	}

	setupLog(opts.Dbg, opts.Telegram.Token)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	if opts.Dry {
		log.Print("[WARN] dry mode, no deletions")
	}

	// make telegram bot
	tbAPI, err := tbapi.NewBotAPIWithClient(opts.Telegram.Token, tbapi.APIEndpoint, &http.Client{Timeout: opts.Telegram.Timeout})
	if err != nil {
		return fmt.Errorf("can't make telegram bot, %w", err)
	}
	tbAPI.Debug = opts.TGDbg

	// make detector with the seed admin set and persisted rules loaded
	detector, err := makeDetector(opts)
	if err != nil {
		return fmt.Errorf("can't make detector, %w", err)
	}

	// make censor bot
	censorBot, err := makeCensorBot(ctx, opts, detector)
	if err != nil {
		return fmt.Errorf("can't make censor bot, %w", err)
	}

	// make suppression audit storage, optional
	var suppressions *storage.Suppressions
	if opts.DB.Connection != "" {
		db, derr := engine.New(ctx, opts.DB.Connection, opts.Telegram.Group)
		if derr != nil {
			return fmt.Errorf("can't make db engine, %w", derr)
		}
		defer db.Close()
		if suppressions, err = storage.NewSuppressions(ctx, db); err != nil {
			return fmt.Errorf("can't make suppressions store, %w", err)
		}
		log.Printf("[DEBUG] suppression audit enabled, db: %s", opts.DB.Connection)
	}

	// make suppression logger
	loggerWr, err := makeSuppressLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make suppression log writer, %w", err)
	}
	defer loggerWr.Close()

	// start web API server if enabled
	if opts.Server.Enabled {
		authPasswd := opts.Server.AuthPasswd
		if authPasswd == "auto" {
			if authPasswd, err = webapi.GenerateRandomPassword(20); err != nil {
				return fmt.Errorf("can't generate web API auth password, %w", err)
			}
			log.Printf("[WARN] basic auth password auto-generated: %s", authPasswd)
		}
		srv := webapi.NewServer(webapi.Config{
			Version:    revision,
			ListenAddr: opts.Server.ListenAddr,
			Detector:   detector,
			AuthPasswd: authPasswd,
			Dbg:        opts.Dbg,
		})
		if suppressions != nil {
			srv.Suppressions = suppressions
		}
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("[ERROR] webapi server failed, %v", err)
			}
		}()
	}

	// make telegram listener
	tgListener := events.TelegramListener{
		TbAPI:          tbAPI,
		Group:          opts.Telegram.Group,
		IdleDuration:   opts.Telegram.IdleDuration,
		SuperUsers:     opts.SuperUsers,
		Bot:            censorBot,
		StartupMsg:     opts.Message.Startup,
		SuppressLogger: makeSuppressLogger(loggerWr),
		NotifyThrottle: opts.NotifyThrottle,
		Dry:            opts.Dry,
	}
	if suppressions != nil {
		tgListener.Suppressions = suppressions
	}
	log.Printf("[DEBUG] telegram listener config: {group: %s, idle: %v, super: %v, throttle: %v, dry: %v}",
		tgListener.Group, tgListener.IdleDuration, tgListener.SuperUsers, tgListener.NotifyThrottle, tgListener.Dry)

	// run telegram listener and event processor loop
	if err := tgListener.Do(ctx); err != nil {
		return fmt.Errorf("telegram listener failed, %w", err)
	}
	return nil
}

// findToken probes the candidate token files in order and returns the trimmed
// content of the first non-empty one.
func findToken(paths ...string) (string, error) {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if token := strings.TrimSpace(string(data)); token != "" {
			log.Printf("[INFO] telegram token read from %s", p)
			return token, nil
		}
	}
	return "", fmt.Errorf("telegram token not set and no token file found in %v", paths)
}

// makeDetector creates the censoring detector with the seed admin injected,
// wires the rules file persistence and restores the saved state. A missing
// rules file keeps the seeded defaults, an unreadable one fails the startup.
func makeDetector(opts options) (*censor.Detector, error) {
	detectorConfig := censor.Config{}
	if opts.SeedAdmin != "" {
		seed, err := parseSeedAdmin(opts.SeedAdmin)
		if err != nil {
			return nil, fmt.Errorf("can't parse seed admin %q: %w", opts.SeedAdmin, err)
		}
		detectorConfig.SeedAdmins = []censor.Admin{seed}
	}

	detector := censor.New(detectorConfig)
	log.Printf("[DEBUG] detector config: %+v", detectorConfig)

	detector.WithStore(censor.NewFileStore(opts.Files.RulesFile, opts.Files.Backup))
	if err := detector.Load(); err != nil {
		return nil, fmt.Errorf("can't load rules from %s: %w", opts.Files.RulesFile, err)
	}
	return detector, nil
}

// parseSeedAdmin parses the "name:id" form of the seed admin option.
func parseSeedAdmin(v string) (censor.Admin, error) {
	name, idStr, found := strings.Cut(v, ":")
	if !found {
		return censor.Admin{}, errors.New("expected name:id")
	}
	if strings.TrimSpace(name) == "" {
		return censor.Admin{}, errors.New("empty admin name")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return censor.Admin{}, fmt.Errorf("can't parse admin id %q: %w", idStr, err)
	}
	return censor.Admin{Name: name, ID: id}, nil
}

func makeCensorBot(ctx context.Context, opts options, detector *censor.Detector) (*bot.CensorFilter, error) {
	censorBotParams := bot.CensorConfig{
		CommandPrefix:  opts.CommandPrefix,
		DictionaryFile: opts.Files.DictionaryFile,
		WatchDelay:     opts.Files.WatchInterval,
	}
	censorBot := bot.NewCensorFilter(ctx, detector, censorBotParams)
	log.Printf("[DEBUG] censor bot config: %+v", censorBotParams)

	if err := censorBot.ReloadDictionary(); err != nil {
		return nil, fmt.Errorf("can't load dictionary, %w", err)
	}
	return censorBot, nil
}

// makeSuppressLogger creates a logger to keep reports about suppressed messages
// it writes json lines to the provided writer
func makeSuppressLogger(wr io.Writer) events.SuppressLogger {
	return events.SuppressLoggerFunc(func(msg *bot.Message, response *bot.Response) {
		text := strings.ReplaceAll(msg.Text, "\n", " ")
		text = strings.TrimSpace(text)
		log.Printf("[INFO] suppressed message from %v, matches: %v", msg.From, response.Matches)
		log.Printf("[DEBUG] suppressed message text: %s", text)
		m := struct {
			TimeStamp   string   `json:"ts"`
			DisplayName string   `json:"display_name"`
			UserName    string   `json:"user_name"`
			UserID      int64    `json:"user_id"`
			Text        string   `json:"text"`
			Matches     []string `json:"matches"`
		}{
			TimeStamp:   time.Now().In(time.Local).Format(time.RFC3339),
			DisplayName: msg.From.DisplayName,
			UserName:    msg.From.Username,
			UserID:      msg.From.ID,
			Text:        text,
			Matches:     response.Matches,
		}
		line, err := json.Marshal(&m)
		if err != nil {
			log.Printf("[WARN] can't marshal json, %v", err)
			return
		}
		if _, err := wr.Write(append(line, '\n')); err != nil {
			log.Printf("[WARN] can't write to log, %v", err)
		}
	})
}

// makeSuppressLogWriter creates a writer for the suppression report log
// it parses options and makes lumberjack logger with rotation
func makeSuppressLogWriter(opts options) (suppressLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	sizeParse := func(inp string) (uint64, error) {
		if inp == "" {
			return 0, errors.New("empty value")
		}
		for i, sfx := range []string{"k", "m", "g", "t"} {
			if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
				val, err := strconv.Atoi(inp[:len(inp)-1])
				if err != nil {
					return 0, fmt.Errorf("can't parse %s: %w", inp, err)
				}
				return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
			}
		}
		return strconv.ParseUint(inp, 10, 64)
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	log.Printf("[INFO] logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

// Package cli собирает зависимости клиента и выполняет команды терминала.
//
// Приложение — консольный аналог экранов веб-клиента: операции сессии
// идут только через хранилище сессии, ресурсные запросы — через
// соответствующие сервисы.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/estatery/realty-client/internal/api"
	"github.com/estatery/realty-client/internal/config"
	"github.com/estatery/realty-client/internal/metrics"
	"github.com/estatery/realty-client/internal/models"
	"github.com/estatery/realty-client/internal/services/campaigns"
	"github.com/estatery/realty-client/internal/services/contact"
	"github.com/estatery/realty-client/internal/services/properties"
	"github.com/estatery/realty-client/internal/session"
	"github.com/estatery/realty-client/internal/tokenstore"
)

// App объединяет собранные зависимости клиента.
type App struct {
	log        *slog.Logger
	out        io.Writer
	session    *session.Store
	properties *properties.Service
	contact    *contact.Service
	campaigns  *campaigns.Service
}

// New строит клиент по конфигу: хранилище токена, транспорт, сессию и сервисы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "cli.New"

	var tokens tokenstore.Store
	var err error
	switch cfg.Backend {
	case config.TokenBackendRedis:
		tokens, err = tokenstore.NewRedisStore(ctx, cfg.RedisConnection, cfg.TokenStorage.Namespace)
	default:
		tokens, err = tokenstore.NewFileStore(cfg.FilePath, cfg.TokenStorage.Namespace)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := api.New(cfg.APIClient, logger,
		api.WithTokenFallback(tokens),
		api.WithRateLimit(cfg.RPS, cfg.Burst),
		api.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
	)

	return &App{
		log:        logger,
		out:        os.Stdout,
		session:    session.NewStore(logger, client, tokens),
		properties: properties.New(client),
		contact:    contact.New(client),
		campaigns:  campaigns.New(client),
	}, nil
}

// Run восстанавливает сессию и выполняет команду.
func (a *App) Run(ctx context.Context, args []string) error {
	a.session.Restore(ctx)

	if len(args) == 0 {
		return fmt.Errorf("usage: realty <login|register|logout|whoami|update-profile|properties|search|contact|campaigns> [flags]")
	}

	switch args[0] {
	case "login":
		return a.runLogin(ctx, args[1:])
	case "register":
		return a.runRegister(ctx, args[1:])
	case "logout":
		a.session.Logout(ctx)
		fmt.Fprintln(a.out, "logged out")
		return nil
	case "whoami":
		return a.runWhoami()
	case "update-profile":
		return a.runUpdateProfile(ctx, args[1:])
	case "properties":
		return a.runProperties(ctx, args[1:])
	case "search":
		return a.runSearch(ctx, args[1:])
	case "contact":
		return a.runContact(ctx, args[1:])
	case "campaigns":
		return a.runCampaigns(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("login: -email and -password are required")
	}

	if err := a.session.Login(ctx, *email, *password); err != nil {
		return fmt.Errorf("login failed: %s", a.session.State().Error)
	}
	st := a.session.State()
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", st.User.Name, st.User.Email)
	return nil
}

func (a *App) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("register: -email and -password are required")
	}

	err := a.session.Register(ctx, models.RegisterRequest{
		Email:    *email,
		Password: *password,
		Name:     *name,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %s", a.session.State().Error)
	}
	st := a.session.State()
	fmt.Fprintf(a.out, "registered as %s\n", st.User.Email)
	return nil
}

func (a *App) runWhoami() error {
	st := a.session.State()
	if !st.IsAuthenticated() {
		fmt.Fprintln(a.out, "not authenticated")
		return nil
	}
	return a.printJSON(st.User)
}

func (a *App) runUpdateProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-profile", flag.ContinueOnError)
	name := fs.String("name", "", "new display name")
	avatar := fs.String("avatar", "", "new avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var patch models.UserPatch
	if *name != "" {
		patch.Name = name
	}
	if *avatar != "" {
		patch.Avatar = avatar
	}

	if err := a.session.UpdateProfile(ctx, patch); err != nil {
		return err
	}
	return a.printJSON(a.session.State().User)
}

func (a *App) runProperties(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "get" {
		if len(args) < 2 {
			return fmt.Errorf("usage: realty properties get <id>")
		}
		p, err := a.properties.Get(ctx, args[1])
		if err != nil {
			return err
		}
		return a.printJSON(p)
	}

	fs := flag.NewFlagSet("properties", flag.ContinueOnError)
	city := fs.String("city", "", "filter by city")
	typ := fs.String("type", "", "filter by property type")
	minPrice := fs.Int64("min-price", 0, "minimum price")
	maxPrice := fs.Int64("max-price", 0, "maximum price")
	bedrooms := fs.Int("bedrooms", 0, "exact number of bedrooms")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := models.PropertyFilter{City: *city, Type: *typ}
	if *minPrice > 0 {
		filter.MinPrice = minPrice
	}
	if *maxPrice > 0 {
		filter.MaxPrice = maxPrice
	}
	if *bedrooms > 0 {
		filter.Bedrooms = bedrooms
	}

	list, err := a.properties.List(ctx, filter)
	if err != nil {
		return err
	}
	return a.printJSON(list)
}

func (a *App) runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	query := fs.String("q", "", "search query")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *query == "" {
		return fmt.Errorf("search: -q is required")
	}

	list, err := a.properties.Search(ctx, *query)
	if err != nil {
		return err
	}
	return a.printJSON(list)
}

func (a *App) runContact(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	name := fs.String("name", "", "your name")
	email := fs.String("email", "", "your email")
	phone := fs.String("phone", "", "your phone")
	message := fs.String("message", "", "message text")
	propertyID := fs.String("property", "", "property id the request is about")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := a.contact.Submit(ctx, contact.Request{
		Name:       *name,
		Email:      *email,
		Phone:      *phone,
		Message:    *message,
		PropertyID: *propertyID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "contact request accepted: %s\n", id)
	return nil
}

func (a *App) runCampaigns(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "get" {
		if len(args) < 2 {
			return fmt.Errorf("usage: realty campaigns get <id>")
		}
		c, err := a.campaigns.Get(ctx, args[1])
		if err != nil {
			return err
		}
		return a.printJSON(c)
	}

	list, err := a.campaigns.List(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(list)
}

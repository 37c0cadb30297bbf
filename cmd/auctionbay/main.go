package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"auctionbay-client/internal/adapters/gateway"
	"auctionbay-client/internal/adapters/query"
	"auctionbay-client/internal/app"
	"auctionbay-client/internal/config"
	"auctionbay-client/internal/domain/item"
	"auctionbay-client/internal/ports/inbound"
	"auctionbay-client/internal/ports/outbound"
	"auctionbay-client/internal/session"
)

// localDateLayout is how end dates are typed on the command line, in the
// user's local time zone
const localDateLayout = "2006-01-02 15:04"

func main() {
	cmd := flag.String("cmd", "items", "Command: login|register|signout|whoami|items|items-page|create-item|update-item|delete-item|bids|update-profile|change-password|delete-account")
	email := flag.String("email", "", "Email address")
	password := flag.String("password", "", "Password")
	newPassword := flag.String("new-password", "", "New password (change-password)")
	firstName := flag.String("first-name", "", "First name")
	lastName := flag.String("last-name", "", "Last name")
	title := flag.String("title", "", "Item title")
	description := flag.String("description", "", "Item description")
	endDate := flag.String("end-date", "", "Auction end, local time, e.g. \"2024-03-01 10:15\"")
	imagePath := flag.String("image", "", "Path to an image file to attach")
	id := flag.String("id", "", "Entity id (update-item/delete-item/bids)")
	page := flag.Int("page", 1, "Page number (items-page)")
	activeOnly := flag.Bool("active-only", false, "Show only items still open for bidding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	initLogging(cfg)

	// Session store is the single shared instance all regions read
	store := session.NewStore(session.StoreParams{Logger: log.Logger})
	defer store.Close()

	gatewayClient, err := gateway.NewClient(gateway.ClientParams{Config: cfg, Logger: log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create gateway client")
	}

	cache := query.NewCache(query.CacheParams{Config: cfg, Logger: log.Logger})
	cache.Start()
	defer cache.Stop()

	authService := app.NewAuthService(app.AuthServiceParams{
		Gateway: gatewayClient,
		Session: store,
		Logger:  log.Logger,
	})
	itemService := app.NewItemService(app.ItemServiceParams{
		Gateway: gatewayClient,
		Session: store,
		Cache:   cache,
		Logger:  log.Logger,
	})
	profileService := app.NewProfileService(app.ProfileServiceParams{
		Gateway: gatewayClient,
		Session: store,
		Auth:    authService,
		Logger:  log.Logger,
	})
	directoryService := app.NewDirectoryService(app.DirectoryServiceParams{
		Gateway: gatewayClient,
		Session: store,
		Cache:   cache,
		Logger:  log.Logger,
	})
	bidService := app.NewBidService(app.BidServiceParams{
		Gateway: gatewayClient,
		Session: store,
		Cache:   cache,
		Logger:  log.Logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout+5*time.Second)
	defer cancel()

	cli := &cli{
		auth:      authService,
		items:     itemService,
		profile:   profileService,
		directory: directoryService,
		bids:      bidService,
		session:   store,
	}

	var failed bool
	switch *cmd {
	case "login":
		failed = !cli.report(cli.auth.Login(ctx, inbound.LoginRequest{Email: *email, Password: *password}))
		cli.printIdentity()
	case "register":
		failed = !cli.report(cli.auth.Register(ctx, inbound.RegisterRequest{
			FirstName:       *firstName,
			LastName:        *lastName,
			Email:           *email,
			Password:        *password,
			ConfirmPassword: *password,
		}))
		cli.printIdentity()
	case "signout":
		failed = !cli.report(cli.auth.Signout(ctx))
	case "whoami":
		failed = !cli.report(cli.auth.FetchCurrent(ctx))
		cli.printIdentity()
	case "items":
		failed = !cli.listItems(ctx, *activeOnly)
	case "items-page":
		failed = !cli.listItemsPage(ctx, *page, *activeOnly)
	case "create-item":
		req, err := buildItemRequest(*title, *description, *endDate, *imagePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid item arguments")
		}
		failed = !cli.reportMutation(cli.items.Create(ctx, req))
	case "update-item":
		itemID := mustParseID(*id)
		req, err := buildItemRequest(*title, *description, *endDate, *imagePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid item arguments")
		}
		failed = !cli.reportMutation(cli.items.Update(ctx, itemID, req))
	case "delete-item":
		failed = !cli.report(cli.items.Delete(ctx, mustParseID(*id)))
	case "bids":
		failed = !cli.listBids(ctx, *id)
	case "update-profile":
		req := inbound.UpdateProfileRequest{FirstName: *firstName, LastName: *lastName, Email: *email}
		if *imagePath != "" {
			selection, err := openImage(*imagePath)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to open avatar file")
			}
			req.Avatar = selection
		}
		failed = !cli.reportMutation(cli.profile.Update(ctx, req))
	case "change-password":
		failed = !cli.report(cli.profile.ChangePassword(ctx, inbound.ChangePasswordRequest{
			CurrentPassword: *password,
			NewPassword:     *newPassword,
			ConfirmPassword: *newPassword,
		}))
	case "delete-account":
		failed = !cli.report(cli.profile.DeleteAccount(ctx))
	default:
		fmt.Println("Unknown command:", *cmd)
		failed = true
	}

	if failed {
		os.Exit(1)
	}
}

type cli struct {
	auth      *app.AuthService
	items     *app.ItemService
	profile   *app.ProfileService
	directory *app.DirectoryService
	bids      *app.BidService
	session   *session.Store
}

// report prints a single outcome for the user. Transport failures get a
// distinct offline wording so they are never mistaken for a backend error.
func (c *cli) report(outcome outbound.Outcome) bool {
	switch outcome.Class {
	case outbound.ClassSuccess:
		fmt.Println("OK")
		return true
	case outbound.ClassBadRequest:
		fmt.Println("Error:", outcome.Message)
	case outbound.ClassAuthFailure:
		fmt.Println("Session expired, please log in again:", outcome.Message)
	case outbound.ClassServerError:
		fmt.Println("Server error:", outcome.Message)
	case outbound.ClassTransportFailure:
		fmt.Println("Backend unreachable, check your connection:", outcome.Message)
	}
	return false
}

// reportMutation prints the two phases independently. A committed metadata
// change with a failed image upload is two messages, never one combined
// failure.
func (c *cli) reportMutation(result inbound.MutationResult) bool {
	if !result.Metadata.IsSuccess() {
		c.report(result.Metadata)
		return false
	}

	fmt.Println("Saved.")
	if result.Image == nil {
		return true
	}
	if result.Image.IsSuccess() {
		fmt.Println("Image uploaded.")
		return true
	}

	fmt.Println("The auction was saved, but the image upload failed:", result.Image.Message)
	return false
}

func (c *cli) printIdentity() {
	if id, ok := c.session.Current(); ok {
		fmt.Printf("Signed in as %s <%s> (%s)\n", id.FullName(), id.Email, id.ID)
	} else {
		fmt.Println("Not signed in")
	}
}

func (c *cli) listItems(ctx context.Context, activeOnly bool) bool {
	items, outcome := c.directory.List(ctx)
	return c.printItems(items, outcome, activeOnly)
}

func (c *cli) listItemsPage(ctx context.Context, page int, activeOnly bool) bool {
	items, outcome := c.directory.Page(ctx, page)
	return c.printItems(items, outcome, activeOnly)
}

func (c *cli) printItems(items []item.AuctionItem, outcome outbound.Outcome, activeOnly bool) bool {
	if !outcome.IsSuccess() {
		return c.report(outcome)
	}

	// Temporal status is recomputed against the wall clock on every render
	now := time.Now()
	if activeOnly {
		items = item.FilterActive(items, now)
	}

	if len(items) == 0 {
		fmt.Println("No auctions yet.")
		return true
	}

	for _, it := range items {
		status := it.StatusAt(now)
		end := "open-ended"
		if it.EndDate != nil && !it.EndDate.Time().IsZero() {
			end = "ends " + it.EndDate.Time().Local().Format(localDateLayout)
		}
		fmt.Printf("%s  %-30s  [%s, %s]\n", it.ID, it.Title, status, end)
	}
	return true
}

func (c *cli) listBids(ctx context.Context, rawID string) bool {
	userID := uuid.Nil
	if rawID != "" {
		userID = mustParseID(rawID)
	} else if current, ok := c.session.Current(); ok {
		userID = current.ID
	} else {
		fmt.Println("Provide --id or log in first")
		return false
	}

	bids, outcome := c.bids.ListForUser(ctx, userID)
	if !outcome.IsSuccess() {
		return c.report(outcome)
	}

	if len(bids) == 0 {
		fmt.Println("No bids yet.")
		return true
	}

	for _, b := range bids {
		fmt.Printf("%s  %.2f on %q\n", b.ID, b.Amount, b.Item.Title)
	}
	return true
}

func buildItemRequest(title, description, endDate, imagePath string) (inbound.CreateUpdateItemRequest, error) {
	req := inbound.CreateUpdateItemRequest{Title: title, Description: description}

	if endDate != "" {
		parsed, err := time.ParseInLocation(localDateLayout, endDate, time.Local)
		if err != nil {
			return req, fmt.Errorf("invalid end date %q: %w", endDate, err)
		}
		req.EndDate = &parsed
	}

	if imagePath != "" {
		selection, err := openImage(imagePath)
		if err != nil {
			return req, err
		}
		req.Image = selection
	}

	return req, nil
}

// openImage hands the file to the upload as-is; the process is short-lived
// so exit reclaims the handle
func openImage(path string) (*inbound.ImageSelection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	return &inbound.ImageSelection{Filename: filepath.Base(file.Name()), Content: file}, nil
}

func mustParseID(raw string) uuid.UUID {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		log.Fatal().Str("id", raw).Msg("--id must be a valid UUID")
	}
	return parsed
}

func initLogging(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set log format
	if cfg.Logging.Format == "json" {
		// JSON format (default)
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Console format for interactive use
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global logger
	zerolog.DefaultContextLogger = &log.Logger
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/example/bookshop-client/internal/auth"
	"github.com/example/bookshop-client/internal/backend"
	"github.com/example/bookshop-client/internal/bus"
	"github.com/example/bookshop-client/internal/bus/relay"
	"github.com/example/bookshop-client/internal/cart"
	"github.com/example/bookshop-client/internal/catalog"
	"github.com/example/bookshop-client/internal/checkout"
	"github.com/example/bookshop-client/internal/config"
	"github.com/example/bookshop-client/internal/identity"
	"github.com/example/bookshop-client/internal/order"
	"github.com/example/bookshop-client/internal/reconcile"
	"github.com/example/bookshop-client/internal/storage"
)

// app holds the wired client services for one interactive session.
type app struct {
	cfg      config.Config
	client   *backend.Client
	session  *auth.Session
	creds    *auth.CredentialCache
	resolver *identity.Resolver
	catalog  *catalog.Service
	cart     *cart.Service
	checkout *checkout.Service
	orders   *order.Service
}

// sessionMirror forwards cart adds to the backend only while a user is
// signed in; guest carts are local-only, and the local cart always wins.
type sessionMirror struct {
	session *auth.Session
	client  *backend.Client
}

func (m *sessionMirror) AddToCart(ctx context.Context, userID, bookID string) error {
	if _, ok := m.session.Current(ctx); !ok {
		return nil
	}
	return m.client.AddToCart(ctx, userID, bookID)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Shop] %v", err)
	}

	log.Println("[Shop] ========================================")
	log.Println("[Shop] Bookshop client")
	log.Println("[Shop] ========================================")
	log.Printf("[Shop] Backend: %s", cfg.BackendURL)
	log.Printf("[Shop] Storage: %s", cfg.StorageDriver)

	durable, cleanup, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("[Shop] Failed to open storage: %v", err)
	}
	defer cleanup()

	b := bus.New()
	client := backend.NewClient(cfg.BackendURL)
	session := auth.NewSession(durable)
	resolver := identity.NewResolver(storage.NewMemory(), durable)

	a := &app{
		cfg:      cfg,
		client:   client,
		session:  session,
		creds:    auth.NewCredentialCache(durable),
		resolver: resolver,
		catalog:  catalog.NewService(client),
		cart:     cart.NewService(durable, b, &sessionMirror{session: session, client: client}),
		orders:   order.NewService(client, order.NewHistory(durable)),
	}
	a.checkout = checkout.NewService(a.cart, order.NewHistory(durable), client)

	if user, ok := session.Current(ctx); ok {
		client.SetToken(user.Token)
		log.Printf("[Shop] Signed in as %s (%s)", user.Name, user.Role)
	}

	// Cross-tab/cross-process change propagation, both optional backstops.
	if len(cfg.KafkaBrokers) > 0 {
		r := relay.New(cfg.KafkaBrokers, cfg.KafkaTopic, "bookshop-client", b)
		defer r.Close()
		stop := r.Start(ctx)
		defer stop()
		log.Printf("[Shop] Relay: %v topic %s", cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	poller := reconcile.NewPoller(durable, b, func(ctx context.Context) string {
		return a.ownerKey(ctx)
	}, cfg.PollInterval)
	go func() {
		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[Shop] Poller stopped: %v", err)
		}
	}()

	b.Subscribe(func(e bus.CartChanged) {
		if e.Origin != bus.OriginLocal {
			fmt.Printf("\n(cart updated elsewhere, type 'cart' to refresh)\n> ")
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		os.Exit(0)
	}()

	a.repl(ctx)
}

func openStorage(cfg config.Config) (storage.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemory(), func() {}, nil
	case config.DriverFile:
		s, err := storage.NewFile(cfg.StoragePath)
		return s, func() {}, err
	case config.DriverRedis:
		s := storage.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		return s, func() { s.Close() }, nil
	case config.DriverPostgres:
		s, err := storage.ConnectPostgres(cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// ownerKey resolves the cart namespace for the current session.
func (a *app) ownerKey(ctx context.Context) string {
	userID := ""
	if user, ok := a.session.Current(ctx); ok {
		userID = user.ID
	}
	return a.resolver.OwnerKey(ctx, userID)
}

func (a *app) repl(ctx context.Context) {
	fmt.Println("Bookshop. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) > 0 {
			if args[0] == "exit" || args[0] == "quit" {
				return
			}
			a.dispatch(ctx, args)
		}
		fmt.Print("> ")
	}
}

func (a *app) dispatch(ctx context.Context, args []string) {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help":
		printHelp()
	case "books":
		a.printBooks(ctx, a.catalog.List(ctx))
	case "search":
		a.printBooks(ctx, catalog.Search(a.catalog.List(ctx), strings.Join(rest, " "), ""))
	case "add":
		a.cmdAdd(ctx, rest)
	case "cart":
		a.cmdCart(ctx)
	case "inc", "dec", "set", "rm":
		a.cmdMutate(ctx, cmd, rest)
	case "clear":
		a.cmdClear(ctx)
	case "checkout":
		a.cmdCheckout(ctx)
	case "orders":
		a.cmdOrders(ctx)
	case "login":
		a.cmdLogin(ctx, rest)
	case "signup":
		a.cmdSignup(ctx, rest)
	case "logout":
		a.cmdLogout(ctx)
	case "whoami":
		a.cmdWhoami(ctx)
	default:
		fmt.Printf("unknown command %q, try 'help'\n", cmd)
	}
}

func printHelp() {
	fmt.Print(`books                                   list the catalog
search <query>                          filter by title or author
add <bookID>                            add one unit to the cart
cart                                    show the cart
inc <bookID> | dec <bookID>             adjust quantity by one
set <bookID> <qty>                      set quantity
rm <bookID>                             remove a line item
clear                                   empty the cart (asks first)
checkout                                place the order
orders                                  show order history
login <email> <password> [role]         sign in
signup <name> <email> <pw> <pw2> [role] register
logout | whoami | exit
`)
}

func (a *app) printBooks(ctx context.Context, books []catalog.Book) {
	items := a.cart.Items(ctx, a.ownerKey(ctx))
	for _, b := range books {
		available := cart.AvailableToAdd(b, items)
		status := fmt.Sprintf("%d available", available)
		if available == 0 {
			status = "out of stock"
		}
		fmt.Printf("%-4s %-38s %-24s %8.2f  %s\n", b.ID, b.Title, b.Author, b.Price, status)
	}
}

func (a *app) cmdAdd(ctx context.Context, rest []string) {
	if len(rest) != 1 {
		fmt.Println("usage: add <bookID>")
		return
	}
	book, err := a.catalog.Get(ctx, rest[0])
	if err != nil {
		fmt.Printf("book %s not found\n", rest[0])
		return
	}
	if err := a.cart.AddItem(ctx, a.ownerKey(ctx), book); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("added %q to cart\n", book.Title)
}

func (a *app) cmdCart(ctx context.Context) {
	items := a.cart.Items(ctx, a.ownerKey(ctx))
	if len(items) == 0 {
		fmt.Println("your cart is empty")
		return
	}
	for _, item := range items {
		fmt.Printf("%-4s %-38s x%-3d %8.2f\n", item.BookID, item.Title, item.Quantity, item.Price*float64(item.Quantity))
	}
	fmt.Printf("total: %.2f (%d items)\n", cart.Total(items), cart.Count(items))
}

func (a *app) cmdMutate(ctx context.Context, cmd string, rest []string) {
	if len(rest) == 0 {
		fmt.Printf("usage: %s <bookID>\n", cmd)
		return
	}
	owner := a.ownerKey(ctx)
	bookID := rest[0]

	var err error
	switch cmd {
	case "inc":
		err = a.cart.IncrementQuantity(ctx, owner, bookID)
	case "dec":
		err = a.cart.DecrementQuantity(ctx, owner, bookID)
	case "rm":
		err = a.cart.RemoveItem(ctx, owner, bookID)
	case "set":
		if len(rest) != 2 {
			fmt.Println("usage: set <bookID> <qty>")
			return
		}
		qty, convErr := strconv.Atoi(rest[1])
		if convErr != nil {
			fmt.Println("usage: set <bookID> <qty>")
			return
		}
		err = a.cart.SetQuantity(ctx, owner, bookID, qty)
	}
	if err != nil {
		fmt.Println(err)
	}
}

func (a *app) cmdClear(ctx context.Context) {
	cleared := a.cart.ClearConfirmed(ctx, a.ownerKey(ctx), func() bool {
		fmt.Print("empty your entire cart? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		return strings.EqualFold(answer, "y")
	})
	if cleared {
		fmt.Println("cart cleared")
	}
}

func (a *app) cmdCheckout(ctx context.Context) {
	user, _ := a.session.Current(ctx)
	result, err := a.checkout.Checkout(ctx, user)
	switch {
	case errors.Is(err, checkout.ErrLoginRequired):
		fmt.Println("please login to checkout")
		return
	case errors.Is(err, checkout.ErrEmptyCart):
		fmt.Println("cart is empty")
		return
	case err != nil:
		fmt.Println(err)
		return
	}

	fmt.Printf("order %s placed, total %.2f\n", result.Order.ID, result.Order.TotalAmount)
	if result.Placement == checkout.LocalFallback {
		fmt.Println("(backend unreachable - order saved locally)")
	}
}

func (a *app) cmdOrders(ctx context.Context) {
	user, ok := a.session.Current(ctx)
	if !ok {
		fmt.Println("please login to see orders")
		return
	}
	orders := a.orders.Orders(ctx, user.ID)
	if len(orders) == 0 {
		fmt.Println("no orders yet")
		return
	}
	for _, o := range orders {
		fmt.Printf("%s  %s  %8.2f  %d items\n", o.ID, o.OrderDate, o.TotalAmount, len(o.Items))
	}
}

func (a *app) cmdLogin(ctx context.Context, rest []string) {
	if len(rest) < 2 {
		fmt.Println("usage: login <email> <password> [role]")
		return
	}
	email, password := rest[0], rest[1]
	role := "buyer"
	if len(rest) > 2 {
		role = rest[2]
	}

	if errs := auth.ValidateLogin(email, password); len(errs) > 0 {
		for _, e := range errs {
			fmt.Println(e)
		}
		return
	}

	user, err := a.client.Login(ctx, backend.Credentials{Email: email, Password: password, Role: role})
	if err != nil {
		var apiErr *backend.APIError
		if !errors.As(err, &apiErr) && a.cfg.OfflineLogin {
			// Backend unreachable: see if the credential cache knows them.
			if cached, ok := a.creds.Verify(ctx, email, password); ok {
				a.finishLogin(ctx, cached, email, password)
				fmt.Println("(backend unreachable - signed in from offline cache)")
				return
			}
		}
		fmt.Printf("login failed: %v\n", err)
		return
	}

	a.finishLogin(ctx, user, email, password)
	fmt.Printf("welcome back, %s\n", user.Name)
}

func (a *app) finishLogin(ctx context.Context, user auth.User, email, password string) {
	a.session.Save(ctx, user)
	a.session.RememberEmail(ctx, email)
	a.client.SetToken(user.Token)
	if a.cfg.OfflineLogin {
		a.creds.Remember(ctx, email, password, user)
	}
}

func (a *app) cmdSignup(ctx context.Context, rest []string) {
	if len(rest) < 4 {
		fmt.Println("usage: signup <name> <email> <password> <confirm> [role]")
		return
	}
	name, email, password, confirm := rest[0], rest[1], rest[2], rest[3]
	role := "buyer"
	if len(rest) > 4 {
		role = rest[4]
	}

	if errs := auth.ValidateSignup(name, email, password, confirm); len(errs) > 0 {
		for _, e := range errs {
			fmt.Println(e)
		}
		return
	}

	user, err := a.client.Signup(ctx, backend.SignupRequest{Name: name, Email: email, Password: password, Role: role})
	if err != nil {
		fmt.Printf("signup failed: %v\n", err)
		return
	}
	a.finishLogin(ctx, user, email, password)
	fmt.Printf("account created, welcome %s\n", user.Name)
}

func (a *app) cmdLogout(ctx context.Context) {
	a.session.Clear(ctx)
	a.client.SetToken("")
	fmt.Println("signed out")
}

func (a *app) cmdWhoami(ctx context.Context) {
	if user, ok := a.session.Current(ctx); ok {
		fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
		return
	}
	fmt.Printf("guest (%s)\n", a.ownerKey(ctx))
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"product-resource/internal/client"
	"product-resource/internal/client/products"
	"product-resource/internal/config"
	"product-resource/internal/logger"
	"product-resource/internal/tracer"
	"product-resource/internal/utils"
	"product-resource/internal/version"
	"product-resource/internal/view"
)

const usage = `usage: http-client [flags] <command> [id]

commands:
  list            list products
  view <id>       show one product
  create          create a product from -title/-content
  edit <id>       update a product from -title/-content
  delete <id>     delete a product (asks for confirmation unless -yes)
  menu            print the menu entries visible to the signed-in user
`

func main() {
	username := flag.String("user", os.Getenv("PRODUCT_USER"), "username or email to sign in with")
	password := flag.String("password", os.Getenv("PRODUCT_PASSWORD"), "password")
	title := flag.String("title", "", "product title")
	content := flag.String("content", "", "product content")
	yes := flag.Bool("yes", false, "skip the delete confirmation")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	log := logger.Instance()
	cfg := config.ClientInstance()

	log.Info(cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	shutdown, _ := tracer.Instance(ctx, cfg)
	defer shutdown()

	out := console{out: os.Stdout}
	svc := products.NewService(client.NewHTTPClient(cfg.ApiHttpURI, time.Duration(cfg.ClientTimeoutMs)*time.Millisecond))
	router := view.NewStateRouter(view.States(), svc, out, out)

	var user *products.User
	if *username != "" {
		u, err := svc.SignIn(ctx, *username, *password)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sign in failed:", err)
			os.Exit(1)
		}
		user = u
		router.SetUser(u)
	}

	if err := run(ctx, router, user, flag.Args(), *title, *content, *yes); err != nil {
		if errors.Is(err, view.ErrSignInRequired) || errors.Is(err, view.ErrForbidden) {
			fmt.Fprintln(os.Stderr, "not allowed:", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		shutdown()
		os.Exit(1)
	}
}

func run(ctx context.Context, router *view.StateRouter, user *products.User, args []string, title, content string, yes bool) error {
	id := ""
	if len(args) > 1 {
		id = args[1]
	}
	params := view.Params{"productId": id}

	switch args[0] {
	case "list":
		if err := router.Go(ctx, view.StateList, nil); err != nil {
			return err
		}
		for _, p := range router.Current().List.Products {
			owner := ""
			if p.User != nil {
				owner = p.User.DisplayName
			}
			fmt.Printf("%s  %-30s  %s  %s\n", p.ID, p.Title, p.Created.Format(time.RFC3339), owner)
		}
		return nil

	case "view":
		if err := router.Go(ctx, view.StateView, params); err != nil {
			return err
		}
		fmt.Println(utils.ToJSONString(router.Current().Detail.Product))
		return nil

	case "create", "edit":
		state := view.StateAdminCreate
		if args[0] == "edit" {
			state = view.StateAdminEdit
		}
		if err := router.Go(ctx, state, params); err != nil {
			return err
		}
		ctrl := router.Current().Admin
		if title != "" || args[0] == "create" {
			ctrl.Product.Title = title
		}
		if content != "" {
			ctrl.Product.Content = content
		}
		return ctrl.Save(ctx, ctrl.Product.Title != "")

	case "delete":
		if err := router.Go(ctx, view.StateAdminEdit, params); err != nil {
			return err
		}
		ctrl := router.Current().Admin
		ctrl.RequestRemove()
		if !yes && !confirm(fmt.Sprintf("Delete %q? [y/N] ", ctrl.Product.Title)) {
			ctrl.CancelRemove()
			return nil
		}
		return ctrl.ConfirmRemove(ctx)

	case "menu":
		for _, m := range view.Menus() {
			for _, item := range view.Visible(m.Items, user) {
				fmt.Println(item.Title)
				for _, sub := range item.Items {
					href, _ := router.Href(sub.State, nil)
					fmt.Printf("  %s  %s\n", sub.Title, href)
				}
			}
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	var answer string
	_, _ = fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}

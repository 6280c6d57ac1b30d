package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/garnizeh/jobboard/internal/attach"
	"github.com/garnizeh/jobboard/internal/board"
	"github.com/garnizeh/jobboard/pkg/client"
)

func main() {
	cfg := client.DefaultConfig()
	flag.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Server base URL")
	email := flag.String("email", "", "Account email")
	password := flag.String("password", "", "Account password")
	signup := flag.Bool("signup", false, "Create the account first")
	card := flag.Int64("card", 0, "Card to move")
	to := flag.Int64("to", 0, "Destination column of -card")
	index := flag.Int("index", 0, "Position inside the destination column")
	upload := flag.String("upload", "", "Document to upload and attach to -card")
	docType := flag.String("doc", "cv", "Document type of -upload (cv or cl)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("-email and -password are required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client.SetLogger(logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := client.NewDefaultClient(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	if *signup {
		err = c.Signup(ctx, *email, *email, *password)
	} else {
		err = c.Signin(ctx, *email, *password)
	}
	if err != nil {
		log.Fatal(err)
	}

	store := board.NewStore()
	if err := load(ctx, c, store); err != nil {
		log.Fatal(err)
	}

	if *card != 0 && *to != 0 {
		_, from, _, ok := store.Card(*card)
		if !ok {
			log.Fatalf("card %d is not on the board", *card)
		}
		r := board.NewReconciler(store, c, board.WithLogger(logger), board.WithRevertOnFailure())
		r.DragStart(board.CardPayload{CardID: *card, FromColumnID: from})
		out, err := r.DragEnd(ctx, board.DropTarget{ColumnID: *to, Index: *index})
		if err != nil {
			log.Fatal(err)
		}
		r.Wait()
		fmt.Printf("card %d: %s\n", *card, out)
	}

	if *upload != "" {
		if *card == 0 {
			log.Fatal("-upload needs -card")
		}
		if err := uploadFile(ctx, c, logger, *upload, *docType, *card); err != nil {
			log.Fatal(err)
		}
	}

	printBoard(os.Stdout, store.Columns())
}

func load(ctx context.Context, c *client.Client, store *board.Store) error {
	statuses, err := c.ListStatuses(ctx)
	if err != nil {
		return err
	}
	apps, err := c.ListApplications(ctx)
	if err != nil {
		return err
	}
	store.Load(statuses, apps)
	return nil
}

func uploadFile(ctx context.Context, c *client.Client, logger *slog.Logger, path, docType string, appID int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}

	svc := attach.NewService(c, logger)
	file, err := svc.UploadAndCreate(ctx, attach.Upload{
		DocType:        docType,
		Filename:       filepath.Base(path),
		Body:           f,
		Size:           st.Size(),
		ApplicationIDs: []int64{appID},
	})
	if err != nil {
		return err
	}
	fmt.Printf("file %d stored at %s\n", file.ID, file.URL)
	return nil
}

func printBoard(w io.Writer, cols []board.Column) {
	for _, col := range cols {
		fmt.Fprintf(w, "%s (#%d)\n", col.Title, col.ID)
		for _, a := range col.Cards {
			star := " "
			if a.Favourite {
				star = "*"
			}
			fmt.Fprintf(w, "  %s %-5d %s, %s\n", star, a.ID, a.Company, a.Position)
		}
		if len(col.Cards) == 0 {
			fmt.Fprintln(w, "  "+strings.Repeat("-", 3))
		}
	}
}

// Command skillctl is a terminal client for the Skill-Sphere backend. It reads
// the bearer token from configuration, keeps a local cache of reactions and
// comments, and applies reactions optimistically the same way the web client
// does.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"skillsphere/internal/api"
	"skillsphere/internal/auth"
	"skillsphere/internal/config"
	"skillsphere/internal/models"
	"skillsphere/internal/observability"
	"skillsphere/internal/store"
	"skillsphere/internal/sync"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: skillctl <command> [args]

Commands:
  posts                                     list the post feed
  reactions <postID>                        show reactions on a post
  react <postID> <LIKE|LOVE|INSIGHTFUL>     apply/toggle a reaction
  comments <postID>                         show comments on a post
  comment <postID> <text>                   post a comment
  edit-comment <postID> <commentID> <text>  edit your comment
  delete-comment <postID> <commentID>       delete a comment
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "skillsphere-client",
		ServiceVersion: "1.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.TracingOTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	tokens := auth.StaticToken(cfg.Token)
	client, err := api.New(cfg.APIBaseURL, tokens, api.WithTimeout(cfg.RequestTimeout()))
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}

	st := store.New()
	snaps := store.NewSnapshots(cfg.RedisURL, cfg.CacheTTL())
	reactions := sync.NewReactions(client, client, st, snaps, tokens)
	defer reactions.Close()
	comments := sync.NewComments(client, client, st, snaps, tokens)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app := &cli{client: client, store: st, reactions: reactions, comments: comments}
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("skillctl %s: %v", os.Args[1], err)
	}
}

type cli struct {
	client    *api.Client
	store     *store.Store
	reactions *sync.Reactions
	comments  *sync.Comments
}

func (a *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "posts":
		return a.listPosts(ctx)
	case "reactions":
		postID, err := parseID(args, 0, "postID")
		if err != nil {
			return err
		}
		return a.listReactions(ctx, postID)
	case "react":
		postID, err := parseID(args, 0, "postID")
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("missing reaction type")
		}
		return a.react(ctx, postID, args[1])
	case "comments":
		postID, err := parseID(args, 0, "postID")
		if err != nil {
			return err
		}
		return a.listComments(ctx, postID)
	case "comment":
		postID, err := parseID(args, 0, "postID")
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("missing comment text")
		}
		return a.postComment(ctx, postID, strings.Join(args[1:], " "))
	case "edit-comment":
		postID, err := parseID(args, 0, "postID")
		if err != nil {
			return err
		}
		commentID, err := parseID(args, 1, "commentID")
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return fmt.Errorf("missing comment text")
		}
		_, err = a.comments.Edit(ctx, postID, commentID, strings.Join(args[2:], " "))
		return err
	case "delete-comment":
		postID, err := parseID(args, 0, "postID")
		if err != nil {
			return err
		}
		commentID, err := parseID(args, 1, "commentID")
		if err != nil {
			return err
		}
		return a.comments.Delete(ctx, postID, commentID)
	default:
		usage()
		return nil
	}
}

func parseID(args []string, idx int, name string) (uint, error) {
	if len(args) <= idx {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseUint(args[idx], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[idx])
	}
	return uint(v), nil
}

func (a *cli) listPosts(ctx context.Context) error {
	posts, err := a.client.Posts(ctx)
	if err != nil {
		return err
	}
	a.store.PutPosts(posts)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAUTHOR\tCATEGORY\tTITLE")
	for _, p := range posts {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", p.ID, p.UserID, p.Category, p.Title)
	}
	return w.Flush()
}

func (a *cli) listReactions(ctx context.Context, postID uint) error {
	rs, err := a.reactions.Load(ctx, postID)
	if err != nil {
		return err
	}
	counts := make(map[models.ReactionType]int)
	for _, r := range rs {
		counts[r.Type]++
	}
	fmt.Printf("post %d: %d reaction(s)\n", postID, len(rs))
	for _, t := range models.ReactionTypes() {
		if counts[t] > 0 {
			fmt.Printf("  %s: %d\n", t, counts[t])
		}
	}
	return nil
}

func (a *cli) react(ctx context.Context, postID uint, rawType string) error {
	t, err := models.ParseReactionType(rawType)
	if err != nil {
		return err
	}
	// Warm the cache so a prior reaction resolves to update/delete, not a
	// doomed duplicate create.
	if _, err := a.reactions.Load(ctx, postID); err != nil {
		return err
	}
	pending, err := a.reactions.Apply(ctx, postID, t)
	if err != nil {
		return err
	}
	if err := pending.Wait(ctx); err != nil {
		return fmt.Errorf("%s failed, local state restored: %w", pending.Transition, err)
	}
	fmt.Printf("%s settled; post %d now has %d reaction(s)\n",
		pending.Transition, postID, a.store.ReactionCount(postID))
	return nil
}

func (a *cli) listComments(ctx context.Context, postID uint) error {
	cs, err := a.comments.Load(ctx, postID)
	if err != nil {
		return err
	}
	for _, c := range cs {
		edited := ""
		if c.Edited() {
			edited = " (edited)"
		}
		fmt.Printf("#%d user %d%s: %s\n", c.ID, c.UserID, edited, c.Content)
	}
	return nil
}

func (a *cli) postComment(ctx context.Context, postID uint, text string) error {
	created, err := a.comments.Post(ctx, postID, text)
	if err != nil {
		return err
	}
	fmt.Printf("comment #%d created\n", created.ID)
	return nil
}

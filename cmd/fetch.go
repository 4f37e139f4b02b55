package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/killallgit/podfeed/internal/models"
	"github.com/killallgit/podfeed/internal/services/feeds"
	"github.com/killallgit/podfeed/internal/services/podcasts"
	"github.com/spf13/cobra"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Load a feed and print it",
	Long: `Load one podcast RSS feed and print the podcast and its episodes.

The disk cache is only used when --cache-max-age is given (or cache.max_age
is configured). With --save the podcast is also stored in the library.

Example:
  podfeed fetch https://feeds.example.com/show.xml
  podfeed fetch https://feeds.example.com/show.xml --cache-max-age 1h --json
  podfeed fetch https://feeds.example.com/show.xml --save`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().Duration("timeout", 0, "network timeout (default from feed.timeout)")
	fetchCmd.Flags().Duration("cache-max-age", 0, "serve from the disk cache when younger than this")
	fetchCmd.Flags().String("cache-dir", "", "cache directory (default from cache.dir)")
	fetchCmd.Flags().Bool("json", false, "print the podcast as JSON")
	fetchCmd.Flags().Bool("save", false, "store the podcast in the library database")
	fetchCmd.Flags().String("database", "", "database path used with --save (overrides config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var opts []feeds.LoadOption
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		opts = append(opts, feeds.WithTimeout(timeout))
	}

	maxAge := cfg.Cache.MaxAge
	if cmd.Flags().Changed("cache-max-age") {
		maxAge, _ = cmd.Flags().GetDuration("cache-max-age")
	}
	if maxAge > 0 {
		dir, _ := cmd.Flags().GetString("cache-dir")
		opts = append(opts, feeds.WithCache(maxAge, dir))
	}

	feedService := newFeedService(cfg)
	feedURL := args[0]

	var podcast *models.Podcast
	source := ""
	if save, _ := cmd.Flags().GetBool("save"); save {
		db, err := openDatabase(cmd, cfg, true)
		if err != nil {
			return err
		}
		defer db.Close()

		service := podcasts.NewService(podcasts.NewRepository(db.DB), feedService)
		if podcast, err = service.Import(cmd.Context(), feedURL, opts...); err != nil {
			return err
		}
	} else {
		result, err := feedService.Load(cmd.Context(), feedURL, opts...)
		if err != nil {
			return err
		}
		podcast, source = result.Podcast, string(result.Source)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(podcast)
	}

	printPodcast(cmd.OutOrStdout(), podcast, source)
	return nil
}

func printPodcast(out io.Writer, podcast *models.Podcast, source string) {
	fmt.Fprintln(out, podcast.Title)
	fmt.Fprintf(out, "Feed:     %s\n", podcast.URL)
	if podcast.Link != nil {
		fmt.Fprintf(out, "Link:     %s\n", *podcast.Link)
	}
	if podcast.Copyright != nil {
		fmt.Fprintf(out, "Author:   %s\n", *podcast.Copyright)
	}
	if source != "" {
		fmt.Fprintf(out, "Source:   %s\n", source)
	}
	fmt.Fprintf(out, "Episodes: %d\n", len(podcast.Episodes))

	for _, episode := range podcast.Episodes {
		published := "          "
		if episode.PublishedAt != nil {
			published = episode.PublishedAt.Format(time.DateOnly)
		}
		fmt.Fprintf(out, "  %s  %s\n", published, episode.Title)
	}
}

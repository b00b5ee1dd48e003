package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/modsentry/spamscan/internal/engine"
	"github.com/modsentry/spamscan/internal/lookup"
	"github.com/modsentry/spamscan/internal/ruleset"
)

// postFile is the on-disk JSON shape accepted by `spamscan scan`.
// It mirrors the /v1/scan request body without the outer envelope.
type postFile struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Body          string      `json:"body"`
	Username      string      `json:"username"`
	Site          string      `json:"site"`
	OwnerRep      int         `json:"owner_rep"`
	Score         int         `json:"score"`
	IsAnswer      bool        `json:"is_answer"`
	BodyIsSummary bool        `json:"body_is_summary"`
	Parent        *postFile   `json:"parent,omitempty"`
	Siblings      []*postFile `json:"siblings,omitempty"`
}

type scanOutput struct {
	Spam      bool     `json:"spam"`
	Reasons   []string `json:"reasons"`
	Why       string   `json:"why,omitempty"`
	LatencyMs float64  `json:"latency_ms"`
}

func newScanCommand() *cobra.Command {
	var (
		contentPath string
		dnsResolver string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "scan <post.json>",
		Short: "Scan a single post and print the verdict",
		Long: `Scan a single post and print the verdict as JSON.

The input file holds one post object:

  {"id": 1, "title": "...", "body": "<p>...</p>", "username": "...",
   "site": "stackoverflow.com", "owner_rep": 1, "score": 0}

Answers may carry "parent" and "siblings" so context-sensitive rules
can compare against the question and the other answers.

Exits 1 when the post is flagged as spam.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if verbose {
				var err error
				logger, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read post file: %w", err)
			}
			var pf postFile
			if err := json.Unmarshal(raw, &pf); err != nil {
				return fmt.Errorf("parse post file: %w", err)
			}
			if pf.Site == "" {
				return fmt.Errorf("post file is missing the site field")
			}

			content := ruleset.DefaultContent()
			if contentPath != "" {
				content, err = ruleset.Load(contentPath)
				if err != nil {
					return fmt.Errorf("load rule content: %w", err)
				}
			}
			rules, err := ruleset.Default(content, ruleset.Lookups{
				Phone:  lookup.NewLibPhoneChecker(),
				NS:     lookup.NewDNSResolver(dnsResolver, 2*time.Second, logger),
				Logger: logger,
			})
			if err != nil {
				return fmt.Errorf("compile rules: %w", err)
			}
			eng := engine.NewScanEngine(rules, logger)

			start := time.Now()
			verdict := eng.Scan(toPost(&pf))
			latencyMs := float64(time.Since(start)) / float64(time.Millisecond)

			reasons := verdict.Reasons
			if reasons == nil {
				reasons = []string{}
			}
			out, err := json.MarshalIndent(scanOutput{
				Spam:      verdict.Spam(),
				Reasons:   reasons,
				Why:       verdict.Why,
				LatencyMs: latencyMs,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if verdict.Spam() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contentPath, "content", "", "rule content file overriding the built-in lists")
	cmd.Flags().StringVar(&dnsResolver, "dns-resolver", "1.1.1.1:53", "DNS server for nameserver lookups")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log rule evaluation to stderr")
	return cmd
}

func toPost(p *postFile) *engine.Post {
	post := &engine.Post{
		ID:            p.ID,
		Title:         p.Title,
		Body:          p.Body,
		Username:      p.Username,
		Site:          p.Site,
		OwnerRep:      p.OwnerRep,
		Score:         p.Score,
		IsAnswer:      p.IsAnswer,
		BodyIsSummary: p.BodyIsSummary,
	}
	if p.Parent != nil {
		post.Parent = toPost(p.Parent)
	}
	for _, s := range p.Siblings {
		if s == nil {
			continue
		}
		post.Siblings = append(post.Siblings, toPost(s))
	}
	return post
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/akngest/internal/akn"
	"github.com/dgallion1/akngest/internal/config"
	"github.com/dgallion1/akngest/internal/convert"
	"github.com/dgallion1/akngest/internal/pathstore"
	"github.com/dgallion1/akngest/internal/pipeline"
	"github.com/dgallion1/akngest/internal/stats"
	"github.com/dgallion1/akngest/internal/store"
)

// convFlags are the structure recovery settings shared by convert, watch
// and preview.
type convFlags struct {
	tocOffset     int
	headerWindow  int
	workers       int
	policy        string
	keywords      string
	noPDFFallback bool
}

func (f *convFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.tocOffset, "toc-offset", 0, "Added to every TOC page number to get the page in the input")
	fl.IntVar(&f.headerWindow, "header-window", 5, "Lines at the top of a page checked for running headers")
	fl.IntVar(&f.workers, "workers", 8, "Documents assembled concurrently")
	fl.StringVar(&f.policy, "policy", "strict", "Paragraph numbering policy (strict, increasing)")
	fl.StringVar(&f.keywords, "keywords", "", "YAML keyword file extending or replacing the curated lists")
	fl.BoolVar(&f.noPDFFallback, "no-pdf-fallback", false, "Never shell out to pdftotext")
}

// apply overlays the flags that were set on c.
func (f *convFlags) apply(cmd *cobra.Command, c config.Config) config.Config {
	fl := cmd.Flags()
	if fl.Changed("toc-offset") {
		c.TOCPageOffset = f.tocOffset
	}
	if fl.Changed("header-window") {
		c.HeaderWindow = f.headerWindow
	}
	if fl.Changed("workers") {
		c.BuildConcurrency = f.workers
	}
	if fl.Changed("policy") {
		c.ParagraphPolicy = f.policy
	}
	if fl.Changed("keywords") {
		c.KeywordsFile = f.keywords
	}
	if f.noPDFFallback {
		c.PDFFallbackPdftotext = false
	}
	return c
}

func (f *convFlags) options(cmd *cobra.Command, c config.Config) (convert.Options, error) {
	c = f.apply(cmd, c)
	if err := c.Validate(); err != nil {
		return convert.Options{}, err
	}
	return convert.FromConfig(c)
}

// runner converts files through the same worker the server uses.
type runner struct {
	worker  *pipeline.Worker
	history store.History
	ps      *pathstore.Client
	opts    convert.Options
}

func newRunner(cmd *cobra.Command, c config.Config, opts convert.Options, publish, record bool) (*runner, error) {
	r := &runner{opts: opts}
	var publisher pipeline.Publisher
	if publish {
		if c.PathstoreAPIKey == "" {
			return nil, errors.New("PATHSTORE_API_KEY is required to publish")
		}
		r.ps = pathstore.NewClient(c.PathstoreURL, c.PathstoreAPIKey)
		publisher = r.ps
	}
	if record {
		h, err := openHistory()
		if err != nil {
			return nil, err
		}
		r.history = h
	}
	r.worker = pipeline.NewWorker(publisher, r.history, stats.New(0), newLogger(cmd.ErrOrStderr()), opts)
	return r, nil
}

// convert runs one file and returns the finished job. A job that failed
// outright is returned with an error.
func (r *runner) convert(ctx context.Context, path string) (*pipeline.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	job := pipeline.NewJob(filepath.Base(path), data)
	r.worker.Process(ctx, job)
	if job.CurrentStatus() == pipeline.StatusFailed {
		return job, fmt.Errorf("%s: %s", path, strings.Join(job.Snapshot().Progress.Errors, "; "))
	}
	return job, nil
}

func (r *runner) Close() {
	if r.ps != nil {
		r.ps.Close()
	}
	if r.history != nil {
		r.history.Close()
	}
}

var (
	convFl      convFlags
	outDir      string
	individual  bool
	publishFlag bool
	noHistory   bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a Final Acts export to an AKN documentCollection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := convFl.options(cmd, cfg)
		if err != nil {
			return err
		}
		r, err := newRunner(cmd, cfg, opts, publishFlag, !noHistory)
		if err != nil {
			return err
		}
		defer r.Close()

		job, err := r.convert(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		written, err := convert.WriteOutputs(outDir, job.Result(), individual, akn.Options{Generated: job.CreatedAt})
		if err != nil {
			return err
		}
		snap := job.Snapshot()
		renderJob(cmd.OutOrStdout(), snap, written)
		if snap.Status == pipeline.StatusPartial {
			return fmt.Errorf("conversion incomplete: %d failed document(s), %d error(s)", len(snap.Failures), len(snap.Progress.Errors))
		}
		return nil
	},
}

func init() {
	convFl.bind(convertCmd)
	convertCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	convertCmd.Flags().BoolVar(&individual, "individual", false, "Also write one statement file per document")
	convertCmd.Flags().BoolVar(&publishFlag, "publish", false, "Publish the statements to pathstore")
	convertCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history database")
}

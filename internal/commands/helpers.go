package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/ppiankov/assuranalytics/internal/config"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/source"
	"github.com/spf13/cobra"
)

// enhanceError wraps an error with context and suggestions for common data source issues.
func enhanceError(action string, err error) error {
	msg := err.Error()

	var hint string
	switch {
	case errors.Is(err, os.ErrNotExist):
		hint = "Check the dataset path, or run 'assuranalytics init --sample-data 1000' to generate one"
	case errors.Is(err, portfolio.ErrSchema):
		hint = "The file must be semicolon-separated with columns: " + strings.Join(portfolio.Columns, ";")
	case errors.Is(err, portfolio.ErrMalformedRow):
		hint = "Fix or remove the reported row. Numeric fields use '.' as decimal separator"
	case strings.Contains(msg, "NoCredentialProviders") || strings.Contains(msg, "failed to retrieve credentials"):
		hint = "Configure AWS credentials: set AWS_PROFILE, AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY, or run 'aws configure'"
	case strings.Contains(msg, "ExpiredToken"):
		hint = "AWS session token expired. Refresh credentials or run 'aws sso login'"
	case strings.Contains(msg, "AccessDenied"):
		hint = "Insufficient permissions. The role needs s3:GetObject on the dataset key"
	case strings.Contains(msg, "NoSuchBucket"):
		hint = "The bucket does not exist. Check the s3:// URI and aws.region"
	case strings.Contains(msg, "NoSuchKey"):
		hint = "The object does not exist. Check the key part of the s3:// URI"
	}

	if hint != "" {
		return fmt.Errorf("%s: %w\n  hint: %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// loadDataset reads and enriches the portfolio at location.
func loadDataset(ctx context.Context, location string, cfg config.Config) (*portfolio.Dataset, error) {
	if timeout := cfg.TimeoutDuration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	src, err := source.New(ctx, location, source.Options{
		Profile: cfg.AWS.Profile,
		Region:  cfg.AWS.Region,
	})
	if err != nil {
		return nil, enhanceError("open dataset", err)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, enhanceError("open dataset", err)
	}
	defer func() { _ = rc.Close() }()

	ds, err := portfolio.Load(rc, src.String())
	if err != nil {
		return nil, enhanceError("load dataset "+src.String(), err)
	}
	return ds, nil
}

// loadOrEmpty is loadDataset for the dashboard: a failed load is logged and
// served as an empty portfolio so the page still renders.
func loadOrEmpty(ctx context.Context, location string, cfg config.Config) *portfolio.Dataset {
	ds, err := loadDataset(ctx, location, cfg)
	if err != nil {
		slog.Warn("Failed to load portfolio, serving an empty dataset", "location", location, "error", err)
		return portfolio.Empty(location)
	}
	ov := ds.Describe()
	slog.Info("Portfolio loaded",
		"source", ds.Source(),
		"records", ov.Records,
		"regions", ov.Regions,
		"types", ov.Types,
		"age_min", ov.AgeMin,
		"age_max", ov.AgeMax,
	)
	return ds
}

// dataLocation resolves the dataset from the flag, then the config file.
func dataLocation(flag string) string {
	if flag != "" {
		return flag
	}
	return appConfig.DataLocation()
}

// tableRows resolves the table size from the flag, then the config file.
func tableRows(flag int) int {
	if flag > 0 {
		return flag
	}
	return appConfig.TableRows
}

// filterFlags mirror the dashboard's filter controls on the command line.
type filterFlags struct {
	types   []string
	sexes   []string
	regions []string
	claims  []string
	ageMin  string
	ageMax  string
	bmMin   string
	bmMax   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "Insurance types to keep (Auto, Santé, Habitation, Vie)")
	cmd.Flags().StringSliceVar(&f.sexes, "sex", nil, "Sexes to keep (masculin, feminin)")
	cmd.Flags().StringSliceVar(&f.regions, "region", nil, "Regions to keep")
	cmd.Flags().StringSliceVar(&f.claims, "claims", nil, "Claim counts to keep (0-3, 4+)")
	cmd.Flags().StringVar(&f.ageMin, "age-min", "", "Minimum age")
	cmd.Flags().StringVar(&f.ageMax, "age-max", "", "Maximum age")
	cmd.Flags().StringVar(&f.bmMin, "bm-min", "", "Minimum bonus-malus coefficient")
	cmd.Flags().StringVar(&f.bmMax, "bm-max", "", "Maximum bonus-malus coefficient")
}

// criteria converts the flags through the same parser as the HTTP API.
func (f *filterFlags) criteria() (portfolio.Criteria, error) {
	v := url.Values{
		portfolio.ParamType:   f.types,
		portfolio.ParamSex:    f.sexes,
		portfolio.ParamRegion: f.regions,
		portfolio.ParamClaims: f.claims,
		portfolio.ParamAgeMin: {f.ageMin},
		portfolio.ParamAgeMax: {f.ageMax},
		portfolio.ParamBMMin:  {f.bmMin},
		portfolio.ParamBMMax:  {f.bmMax},
	}
	c, err := portfolio.ParseCriteria(v)
	if err != nil {
		return portfolio.Criteria{}, fmt.Errorf("invalid filter: %w", err)
	}
	return c, nil
}

package textutil

import (
	"fmt"
	"log/slog"

	"github.com/liuzl/gocc"

	"cuekit/internal/logging"
)

// ChineseConverter rewrites Chinese text with an OpenCC profile such as
// "t2s" (traditional to simplified) or "s2t".
type ChineseConverter struct {
	profile string
	cc      *gocc.OpenCC
	logger  *slog.Logger
}

// NewChineseConverter loads the OpenCC dictionaries for profile. gocc reads
// them from its data directory at runtime, so a missing installation fails here.
func NewChineseConverter(profile string, logger *slog.Logger) (*ChineseConverter, error) {
	if profile == "" {
		profile = "t2s"
	}
	cc, err := gocc.New(profile)
	if err != nil {
		return nil, fmt.Errorf("initialize opencc %s: %w", profile, err)
	}
	return &ChineseConverter{
		profile: profile,
		cc:      cc,
		logger:  logging.NewComponentLogger(logger, "opencc"),
	}, nil
}

// Convert returns text converted by the profile. On failure the input comes
// back unchanged and a warning is logged.
func (c *ChineseConverter) Convert(text string) string {
	if c == nil || c.cc == nil || text == "" {
		return text
	}
	out, err := c.cc.Convert(text)
	if err != nil {
		logging.WarnWithContext(c.logger, "opencc conversion failed", "opencc_failed",
			logging.String("profile", c.profile),
			logging.Error(err),
		)
		return text
	}
	return out
}

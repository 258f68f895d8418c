package huggingface

import (
	"strings"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/ainews/config"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/plugins/upstream"
	"github.com/va6996/ainews/tools"
)

// Public site root used to build paper and space links, independent of the
// API base URL so tests against a local server still produce real links.
const siteURL = "https://huggingface.co"

// Client handles Hugging Face Hub API requests
type Client struct {
	BaseURL string
	papers  *upstream.Client
	spaces  *upstream.Client
}

// NewClient creates a Hugging Face client and registers its tools when gk
// and registry are non-nil. Papers and Spaces each get their own proxy.
func NewClient(cfg config.HuggingFaceConfig, timeout time.Duration, userAgent string, gk *genkit.Genkit, registry *tools.Registry) (*Client, error) {
	papers, err := upstream.NewClient(core.SourcePaper, timeout, cfg.PapersProxy, userAgent)
	if err != nil {
		return nil, err
	}
	spaces, err := upstream.NewClient(core.SourceSpace, timeout, cfg.SpacesProxy, userAgent)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = siteURL
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		papers:  papers,
		spaces:  spaces,
	}

	c.initTools(gk, registry)
	return c, nil
}

func (c *Client) initTools(gk *genkit.Genkit, registry *tools.Registry) {
	if gk == nil || registry == nil {
		return
	}
	NewPapersTool(c, gk, registry)
	NewSpacesTool(c, gk, registry)
}

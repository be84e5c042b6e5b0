package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

type endpoint struct {
	Path        string      `json:"path"`
	Methods     []string    `json:"methods"`
	Description string      `json:"description"`
	Parameters  []parameter `json:"parameters"`
}

var yearParam = parameter{Name: "year", Type: "integer", Description: "Year to fetch; the latest available year when omitted"}

var domainDescriptions = map[catalog.Domain]string{
	catalog.Production:        "wine, juice and derivatives production",
	catalog.Processing:        "grape processing",
	catalog.Commercialization: "wine and derivatives commercialization",
	catalog.Import:            "imports of grape derivatives",
	catalog.Export:            "exports of grape derivatives",
}

func endpoints() []endpoint {
	var out []endpoint
	for _, d := range catalog.Domains {
		desc := domainDescriptions[d]
		path := "/api/" + string(d)
		if !d.HasCategories() {
			out = append(out, endpoint{
				Path: path, Methods: []string{http.MethodGet},
				Description: "Get " + desc + " data",
				Parameters:  []parameter{yearParam},
			})
			continue
		}
		out = append(out,
			endpoint{
				Path: path, Methods: []string{http.MethodGet},
				Description: "Get " + desc + " data for every category",
				Parameters:  []parameter{yearParam},
			},
			endpoint{
				Path: path + "/{category}", Methods: []string{http.MethodGet},
				Description: "Get " + desc + " data for one category",
				Parameters: []parameter{
					{Name: "category", Type: "string", Required: true,
						Description: "One of " + strings.Join(catalog.Keys(d), ", ")},
					yearParam,
				},
			},
		)
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      serviceName,
		"version":   version,
		"endpoints": endpoints(),
	})
}

func docsMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", serviceName, version)
	b.WriteString("Vitivinicultural statistics scraped from the Embrapa VitiBrasil site.\n\n")
	b.WriteString("| path | description | parameters |\n|---|---|---|\n")
	for _, ep := range endpoints() {
		params := make([]string, len(ep.Parameters))
		for i, p := range ep.Parameters {
			params[i] = fmt.Sprintf("`%s` (%s): %s", p.Name, p.Type, p.Description)
		}
		fmt.Fprintf(&b, "| `GET %s` | %s | %s |\n", ep.Path, ep.Description, strings.Join(params, "; "))
	}
	b.WriteString("\nAggregate routes report per-category failures as `{\"error\": \"...\"}` entries.\n")
	return b.String()
}

var docsRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	var body bytes.Buffer
	if err := docsRenderer.Convert([]byte(docsMarkdown()), &body); err != nil {
		jsonError(w, "render docs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><title>%s</title></head><body>\n", serviceName)
	w.Write(body.Bytes())
	w.Write([]byte("</body></html>\n"))
}

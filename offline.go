/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

const cacheName = "chronoselect-v" + releaseVersion

//go:embed chronoselect/sw.js
var serviceWorkerJS []byte

// precacheURLs lists the shell every installed surface keeps on hand.
func precacheURLs(cfg *Config) []string {
	return []string{
		cfg.prefix + "/assets/chronoselect/app.js",
		cfg.prefix + "/assets/chronoselect/app.css",
		cfg.prefix + "/favicons/icon.svg",
		cfg.prefix + "/manifest.webmanifest",
	}
}

func serviceWorker(cfg *Config) ([]byte, error) {
	urls, err := json.Marshal(precacheURLs(cfg))
	if err != nil {
		return nil, err
	}

	header := fmt.Sprintf("const CACHE_NAME = %q;\nconst PRECACHE = %s;\n\n", cacheName, urls)

	return append([]byte(header), serviceWorkerJS...), nil
}

type webManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type webManifest struct {
	Name            string            `json:"name"`
	ShortName       string            `json:"short_name"`
	StartURL        string            `json:"start_url"`
	Scope           string            `json:"scope"`
	Display         string            `json:"display"`
	Orientation     string            `json:"orientation"`
	BackgroundColor string            `json:"background_color"`
	ThemeColor      string            `json:"theme_color"`
	Icons           []webManifestIcon `json:"icons"`
}

func serveServiceWorker(cfg *Config, errs chan<- error) httprouter.Handle {
	data, err := serviceWorker(cfg)

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if err != nil {
			http.Error(w, "service worker unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		if _, err := w.Write(data); err != nil {
			errs <- err
		}
	}
}

func serveWebManifest(cfg *Config, errs chan<- error) httprouter.Handle {
	manifest := webManifest{
		Name:            "Chronoselect",
		ShortName:       "Chronoselect",
		StartURL:        cfg.prefix + "/",
		Scope:           cfg.prefix + "/",
		Display:         "fullscreen",
		Orientation:     "any",
		BackgroundColor: "#000000",
		ThemeColor:      "#000000",
		Icons: []webManifestIcon{
			{Src: cfg.prefix + "/favicons/icon.svg", Sizes: "any", Type: "image/svg+xml"},
		},
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/manifest+json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(manifest); err != nil {
			errs <- err
		}
	}
}

func registerOffline(cfg *Config, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/sw.js", serveServiceWorker(cfg, errs))
	mux.GET(cfg.prefix+"/manifest.webmanifest", serveWebManifest(cfg, errs))
}

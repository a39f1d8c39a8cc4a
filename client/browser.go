package client

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// loginTimeout bounds the whole browser session, including any MFA steps.
const loginTimeout = 4 * time.Minute

// CaptureRedirect opens a visible browser on the authorization URL and waits
// for the user to finish logging in. The tool never types credentials: Schwab
// logins involve MFA, so the user completes the form in the window and only
// the final redirect URL is read. The redirect target usually fails to load
// (it points at 127.0.0.1), which is fine because the code is in the URL.
func CaptureRedirect(ctx context.Context, authURL, redirectURI string) (string, error) {
	browserCtx, cancel := createChromeContext(ctx)
	if browserCtx == nil {
		return "", fmt.Errorf("no Chrome or Chromium executable found in PATH")
	}
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, loginTimeout)
	defer cancelTimeout()

	var finalURL string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(authURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			for {
				var currentURL string
				if err := chromedp.Location(&currentURL).Do(ctx); err != nil {
					return err
				}
				if strings.HasPrefix(currentURL, redirectURI) && strings.Contains(currentURL, "code=") {
					finalURL = currentURL
					return nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(500 * time.Millisecond):
				}
			}
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to capture redirect URL from browser: %w", err)
	}

	log.Info().Msg("Captured redirect URL from browser")
	return finalURL, nil
}

// createChromeContext creates a new ChromeDP context with a visible window.
func createChromeContext(parent context.Context) (context.Context, context.CancelFunc) {
	// Check if Google Chrome or Chromium is available in the path
	var execPath string
	if path, err := exec.LookPath("google-chrome"); err == nil {
		execPath = path
	} else if path, err := exec.LookPath("chromium"); err == nil {
		execPath = path
	} else if path, err := exec.LookPath("chrome"); err == nil {
		execPath = path
	} else {
		log.Error().Msg("Neither Google Chrome nor Chromium is available in the path. Please install one of them.")
		return nil, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-gpu", false),
		chromedp.Flag("start-maximized", true),
	)

	allocatorCtx, cancelAllocator := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelContext := chromedp.NewContext(allocatorCtx, chromedp.WithLogf(log.Info().Msgf))

	return browserCtx, func() {
		cancelContext()
		cancelAllocator()
	}
}

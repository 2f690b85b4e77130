// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"time"

	"github.com/toikana/marketplace/internal/platform/constants"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/i18n"
)

const languageCookieAge = 365 * 24 * time.Hour

// Language negotiates the UI language of the request.
//
// A valid ?lang= wins and is remembered in a cookie. Otherwise the cookie,
// then Accept-Language, then Kyrgyz.
func Language() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			lang := negotiate(writer, request)
			writer.Header().Set("Content-Language", string(lang))
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithLanguage(request.Context(), lang)))
		})
	}
}

func negotiate(writer http.ResponseWriter, request *http.Request) i18n.Language {
	if lang, ok := i18n.Parse(request.URL.Query().Get(i18n.QueryParam)); ok {
		http.SetCookie(writer, &http.Cookie{
			Name:     i18n.CookieName,
			Value:    string(lang),
			Path:     "/",
			MaxAge:   int(languageCookieAge.Seconds()),
			SameSite: http.SameSiteLaxMode,
		})
		return lang
	}

	if cookie, err := request.Cookie(i18n.CookieName); err == nil {
		if lang, ok := i18n.Parse(cookie.Value); ok {
			return lang
		}
	}

	if header := request.Header.Get(constants.HeaderAcceptLang); header != "" {
		return i18n.MatchAcceptLanguage(header)
	}
	return i18n.Default
}

// Package file provides a JSON file implementation of driven.TokenStore.
//
// The file uses the "authorized user" layout that Google's client libraries
// write, so a token saved by one tool can be loaded by another:
//
//	{
//	  "token": "ya29...",
//	  "refresh_token": "1//0g...",
//	  "token_uri": "https://oauth2.googleapis.com/token",
//	  "client_id": "123.apps.googleusercontent.com",
//	  "client_secret": "...",
//	  "scopes": ["https://www.googleapis.com/auth/script.projects"],
//	  "expiry": "2026-01-02T15:04:05.123456Z"
//	}
//
// The file is written with mode 0600.
package file

// Package ratelimit provides request pacing for xscraper.
//
// A post with several media attachments turns into several CDN requests;
// the limiter spaces them out so the tool stays polite.
//
// Interface:
//
// Rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// Token bucket: 60 requests per minute
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//
//	// Block until allowed
//	limiter.Wait()
//	// Proceed with request
package ratelimit

// Package feed broadcasts each completed spread delta cycle to WebSocket clients.
package feed

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package metrics provides Prometheus instrumentation for Foodgram.

Every collector is registered with the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

HTTP:
  - http_requests_total{method, endpoint, status}
  - http_request_duration_seconds{method, endpoint}
  - http_requests_in_flight
  - http_rate_limit_hits_total{endpoint}

Database:
  - duckdb_query_duration_seconds{operation}
  - duckdb_query_errors_total{operation}

Auth:
  - auth_login_attempts_total{result}: success, invalid, throttled
  - auth_tokens_revoked_total

Cache:
  - cache_hits_total{cache}, cache_misses_total{cache}, cache_entries{cache}

Events:
  - events_published_total{topic, result}
  - events_consumed_total{handler, result}
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

Import:
  - import_rows_total{kind, outcome}: inserted, skipped, error
  - import_duration_seconds{kind}

WebSocket:
  - websocket_connections_active
  - websocket_messages_sent_total
  - websocket_errors_total{error_type}
*/
package metrics

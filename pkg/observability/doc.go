/*
Package observability turns engine lifecycle hooks into metrics and logs.

# Key Components

  - Metrics: Prometheus collectors fed by domain.LifecycleHooks.
  - LogHooks: hooks that write one structured log line per event.
  - Chain: combines several hook sets into one.
*/
package observability

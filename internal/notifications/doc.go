// Package notifications delivers planning and apply events via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Event classes (plan, apply, degraded fetch, errors) are toggled
// individually so operators can subscribe to failures without plan chatter.
//
// Extend this package if you need alternative transports; workflow code
// depends only on the Service interface.
package notifications

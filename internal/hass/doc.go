// Package hass defines the device's Home Assistant MQTT contract: topic
// names, wire payloads, and the retained discovery descriptor that lets a
// hub auto-register the lock and door-sensor entities.
//
// See https://www.home-assistant.io/integrations/mqtt/ for the discovery
// format.
package hass

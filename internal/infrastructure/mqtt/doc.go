// Package mqtt provides the broker transport for the door controller.
//
// This package manages:
//   - Connection to the provisioned broker (tcp or ssl)
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//
// # Architecture
//
// The controller speaks to exactly one broker, named in the provisioned
// device configuration. Reconnection policy lives in the session layer:
// paho's auto-reconnect is disabled, the connection-lost callback informs
// the session, and the session redials on its own backoff schedule.
//
// # Security Considerations
//
//   - TLS is controlled by the provisioned configuration (mqtt_tls)
//   - Certificate verification is opt-in (mqtt_tls_verify_cert); brokers
//     with self-signed certificates are a supported deployment mode
//   - Credentials are validated against broker ACL
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client := mqtt.New(cfg, mqtt.ClientOptions{
//	    QoS:  1,
//	    Will: mqtt.Will{Topic: avail, Payload: "offline", QoS: 1, Retained: true},
//	})
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err := client.Subscribe("doorctl/a0b1c2d3e4f5/lock/cmd", 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
package mqtt

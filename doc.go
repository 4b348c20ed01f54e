// Package mqttcore implements a blocking, single-threaded MQTT 3.1.1
// client core for embedded and resource-constrained devices.
//
// The engine runs on the caller's goroutine only: there are no internal
// goroutines, channels, or mutexes. Every public method either returns
// immediately or blocks the calling goroutine until its outcome is known
// or a command timeout elapses. This trades concurrency for a small,
// auditable state machine whose send and receive buffers have a fixed
// capacity and never grow. Encoding and decoding a packet still allocate
// (the packet value, its topic and payload, and the encoder's staging
// buffer).
//
// # Quick start
//
//	client, err := mqttcore.Dial(context.Background(), "tcp://broker.example:1883",
//	    mqttcore.WithClientID("sensor-07"),
//	    mqttcore.WithKeepAlive(30),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Connect(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	client.Subscribe("sensors/+/temp", 1, func(msg *mqttcore.Message) {
//	    fmt.Println(msg.Topic, string(msg.Payload))
//	})
//
//	for {
//	    client.Yield(1000)
//	}
//
// # Transports
//
// Dial picks a Transport from the URL scheme: tcp://, tls://, ws://,
// wss://, quic://, unix://. Each wraps a deadline-scoped blocking
// read/write contract (see transport.go); TLS, WebSocket, QUIC and Unix
// domain socket variants are all driven through the same Transport
// interface the cycle engine uses.
//
// # Packet types
//
// The wire codec (codec.go and the packet_*.go files) implements the
// MQTT 3.1.1 control packets: CONNECT, CONNACK, PUBLISH, PUBACK, PUBREC,
// PUBREL, PUBCOMP, SUBSCRIBE, SUBACK, UNSUBSCRIBE, UNSUBACK, PINGREQ,
// PINGRESP, DISCONNECT.
//
// # Authentication
//
// Plain username/password credentials are set with WithCredentials. For
// brokers that support SCRAM-SHA-256/512 over the same CONNECT fields,
// an AuthProvider built from scram.go derives the opaque credential blob
// (see auth.go).
package mqttcore

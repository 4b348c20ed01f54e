package mqttcore

import "context"

// Connect sends CONNECT and blocks for CONNACK within the configured
// command timeout (§4.7). It is forbidden while already connected. On
// acceptance, if clean_session is false and an inflight publish from a
// previous session survives, it is replayed before Connect returns —
// per spec.md's testable boundary "after a simulated disconnect during
// publish QoS 1 and reconnect, the engine re-sends the saved publish
// before returning from connect()".
func (c *Client) Connect(ctx context.Context) error {
	if c.session.connected {
		return ErrAlreadyConnected
	}

	clientID := c.options.clientID
	if clientID == "" {
		clientID = generateClientID()
	}

	username := c.options.username
	password := c.options.password
	if c.options.authProvider != nil {
		var err error
		username, password, err = c.options.authProvider.Credentials(ctx, clientID)
		if err != nil {
			return err
		}
	}

	req := &ConnectPacket{
		ClientID:   clientID,
		CleanStart: c.options.cleanStart,
		KeepAlive:  c.options.keepAlive,
		Username:   username,
		Password:   password,
	}
	if c.options.will != nil {
		req.WillFlag = true
		req.WillTopic = c.options.will.Topic
		req.WillPayload = c.options.will.Payload
		req.WillQoS = c.options.will.QoS
		req.WillRetain = c.options.will.Retain
	}

	started := c.options.timerFactory()
	started.Reset()

	if err := c.sendCommand(req); err != nil {
		return err
	}

	packet, err := c.waitFor(PacketCONNACK, c.options.commandTimeoutMs())
	if err != nil {
		return err
	}
	ack := packet.(*ConnackPacket)

	if ack.ReturnCode != ConnackAccepted {
		c.logger.Warn("connect refused", LogFields{LogFieldReasonCode: ack.ReturnCode})
		return &ConnectError{ReasonCode: ack.ReturnCode}
	}

	c.session.connected = true
	c.session.keepAlive = c.options.keepAlive
	c.session.cleanStart = c.options.cleanStart
	c.session.resetSendTimer()
	c.session.resetReceiveTimer()

	if !c.options.cleanStart && c.inflight.occupied {
		if err := c.replayInflight(); err != nil {
			return err
		}
	}

	c.metrics.CommandLatency(started.Elapsed())
	c.logger.Info("connected", LogFields{"client_id": clientID})
	return nil
}

// replayInflight resends the surviving inflight publish after a
// clean_session=false reconnect. A pubrelPending record means the
// PUBREC for it already arrived in a prior session, so only the PUBREL
// needs resending; otherwise the original PUBLISH bytes are resent
// verbatim (§4.7 connect's replay clause).
func (c *Client) replayInflight() error {
	c.metrics.ReconnectReplay()

	if c.inflight.pubrelPending {
		rel := &PubrelPacket{ID: c.inflight.packetID}
		if err := c.sendCommand(rel); err != nil {
			return err
		}
		if _, err := c.waitFor(PacketPUBCOMP, c.options.commandTimeoutMs()); err != nil {
			return err
		}
		c.inflight.clear()
		return nil
	}

	if err := c.writeFrame(c.inflight.data, c.options.commandTimeoutMs()); err != nil {
		return err
	}

	switch c.inflight.qos {
	case 1:
		if _, err := c.waitFor(PacketPUBACK, c.options.commandTimeoutMs()); err != nil {
			return err
		}
	case 2:
		if _, err := c.waitFor(PacketPUBCOMP, c.options.commandTimeoutMs()); err != nil {
			return err
		}
	}
	c.inflight.clear()
	return nil
}

// Subscribe sends SUBSCRIBE for a single filter and blocks for SUBACK
// (§4.7). On a granted QoS, handler is installed in the first free
// handler table slot; on 0x80 the broker refused the filter. If SUBACK
// grants a QoS but the local handler table has no free slot, the
// subscription is left in place at the broker (see DESIGN.md's Open
// Question decision) and ErrHandlerTableFull is returned rather than
// silently reverting it with an UNSUBSCRIBE.
func (c *Client) Subscribe(filter string, qos byte, handler MessageHandler) (byte, error) {
	if !c.session.connected {
		return 0, ErrNotConnected
	}
	if err := ValidateTopicFilter(filter); err != nil {
		return 0, err
	}

	req := &SubscribePacket{
		ID:            c.packetIDs.Next(),
		Subscriptions: []Subscription{{TopicFilter: filter, QoS: qos}},
	}
	if err := c.sendCommand(req); err != nil {
		return 0, err
	}

	packet, err := c.waitFor(PacketSUBACK, c.options.commandTimeoutMs())
	if err != nil {
		return 0, err
	}
	ack := packet.(*SubackPacket)
	grant := ack.ReturnCodes[0]

	if grant == SubackFailure {
		return grant, &SubscribeError{Filter: filter}
	}

	if !c.handlers.add(filter, grant, handler) {
		return grant, ErrHandlerTableFull
	}
	return grant, nil
}

// Unsubscribe sends UNSUBSCRIBE and blocks for UNSUBACK. The matching
// local handler slot is freed on success, so its callback no longer fires
// after UNSUBACK (see DESIGN.md's Open Question decision).
func (c *Client) Unsubscribe(filter string) error {
	if !c.session.connected {
		return ErrNotConnected
	}

	req := &UnsubscribePacket{
		ID:           c.packetIDs.Next(),
		TopicFilters: []string{filter},
	}
	if err := c.sendCommand(req); err != nil {
		return err
	}

	if _, err := c.waitFor(PacketUNSUBACK, c.options.commandTimeoutMs()); err != nil {
		return err
	}

	c.handlers.remove(filter)
	return nil
}

// Publish sends a PUBLISH at the given QoS and, for QoS 1/2, blocks
// until its handshake completes (§4.7). For QoS 2 the call waits
// directly for PUBCOMP; the intermediate PUBREC→PUBREL transition is
// handled transparently inside waitFor by the cycle engine's dispatch
// table (see DESIGN.md's Open Question decision).
func (c *Client) Publish(topic string, payload []byte, qos byte, retain bool) error {
	if !c.session.connected {
		return ErrNotConnected
	}
	if err := ValidateTopicName(topic); err != nil {
		return err
	}
	if qos > 2 {
		return ErrInvalidQoS
	}

	msg := &Message{Topic: topic, Payload: payload, QoS: qos, Retain: retain}
	msg = applyProducerInterceptors(c.options.producerInterceptors, msg)
	if msg == nil {
		return nil
	}

	req := &PublishPacket{Topic: msg.Topic, Payload: msg.Payload, QoS: msg.QoS, Retain: msg.Retain}
	if req.QoS > 0 {
		if c.inflight.occupied {
			return ErrInflightBusy
		}
		req.ID = c.packetIDs.Next()
	}

	n, err := encodeInto(c.sendBuf, req)
	if err != nil {
		return err
	}

	if !c.options.cleanStart && req.QoS > 0 {
		c.inflight.set(req.ID, req.QoS, c.sendBuf[:n])
	}

	if err := c.writeFrame(c.sendBuf[:n], c.options.commandTimeoutMs()); err != nil {
		return &PublishError{Topic: topic, PacketID: req.ID, Cause: err}
	}
	c.metrics.PacketSent(PacketPUBLISH, n)

	switch req.QoS {
	case 0:
		return nil
	case 1:
		if _, err := c.waitFor(PacketPUBACK, c.options.commandTimeoutMs()); err != nil {
			return &PublishError{Topic: topic, PacketID: req.ID, Cause: err}
		}
	case 2:
		if _, err := c.waitFor(PacketPUBCOMP, c.options.commandTimeoutMs()); err != nil {
			return &PublishError{Topic: topic, PacketID: req.ID, Cause: err}
		}
	}

	c.inflight.clear()
	return nil
}

// Disconnect sends DISCONNECT and marks the session disconnected
// unconditionally, whether or not the send succeeds (§4.7).
func (c *Client) Disconnect() error {
	defer c.session.reset()

	n, err := encodeInto(c.sendBuf, &DisconnectPacket{})
	if err != nil {
		return err
	}
	if err := c.writeFrame(c.sendBuf[:n], c.options.commandTimeoutMs()); err != nil {
		return err
	}
	c.metrics.PacketSent(PacketDISCONNECT, n)
	return nil
}

// sendCommand encodes packet into sendBuf and writes it within the
// command timeout, the shared first half of every blocking command
// (§4.7's "serializes its request into send_buffer, sends it").
func (c *Client) sendCommand(packet Packet) error {
	n, err := encodeInto(c.sendBuf, packet)
	if err != nil {
		return err
	}
	if err := c.writeFrame(c.sendBuf[:n], c.options.commandTimeoutMs()); err != nil {
		return err
	}
	c.metrics.PacketSent(packet.Type(), n)
	return nil
}

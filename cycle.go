package mqttcore

// cycle performs spec.md §4.5's "one unit of work": read one packet
// within deadlineMs, dispatch it by type, then run keepalive. Returns
// the dispatched PacketType with ok true on success. When nothing
// arrived before the deadline it returns (0, false, nil) after running
// keepalive; the caller distinguishes that case via ok.
func (c *Client) cycle(deadlineMs int) (PacketType, bool, error) {
	packet, err := c.readFrame(deadlineMs)
	if err != nil {
		if isTimeout(err) {
			if kerr := c.checkKeepalive(); kerr != nil {
				return 0, false, kerr
			}
			return 0, false, nil
		}
		c.session.reset()
		return 0, false, err
	}

	packetType := packet.Type()
	if err := c.dispatch(packet); err != nil {
		c.session.reset()
		return packetType, false, err
	}

	if err := c.checkKeepalive(); err != nil {
		c.session.reset()
		return packetType, true, err
	}

	return packetType, true, nil
}

// dispatch implements the §4.5 dispatch table. CONNACK/PUBACK/SUBACK/
// UNSUBACK/PUBCOMP are left untouched here: waitFor consumes them by
// checking the type cycle returns.
func (c *Client) dispatch(packet Packet) error {
	switch p := packet.(type) {
	case *PublishPacket:
		return c.dispatchPublish(p)
	case *PubrecPacket:
		return c.dispatchPubrec(p)
	case *PubrelPacket:
		return c.dispatchPubrel(p)
	case *PingrespPacket:
		c.handlePingresp()
		return nil
	default:
		return nil
	}
}

func (c *Client) dispatchPublish(p *PublishPacket) error {
	msg := applyConsumerInterceptors(c.options.consumerInterceptors, p.ToMessage())
	if msg == nil {
		return c.ackForQoS(p)
	}

	switch p.QoS {
	case 0:
		c.handlers.dispatch(msg)
		return nil

	case 1:
		c.handlers.dispatch(msg)
		return c.sendAck(PacketPUBACK, p.ID)

	case 2:
		if !c.qos2Rx.contains(p.ID) {
			if c.qos2Rx.insert(p.ID) {
				c.handlers.dispatch(msg)
			} else {
				c.logger.Warn("qos2 receive set full, dropping delivery", LogFields{LogFieldPacketID: p.ID})
				c.metrics.QoS2Dedup()
			}
		} else {
			c.metrics.QoS2Dedup()
		}
		return c.sendAck(PacketPUBREC, p.ID)

	default:
		return ErrInvalidQoS
	}
}

// ackForQoS emits the protocol-required acknowledgement for a PUBLISH
// whose message a consumer interceptor dropped (returned nil): the
// handshake with the broker still must complete even though nothing
// reaches a handler.
func (c *Client) ackForQoS(p *PublishPacket) error {
	switch p.QoS {
	case 0:
		return nil
	case 1:
		return c.sendAck(PacketPUBACK, p.ID)
	case 2:
		return c.sendAck(PacketPUBREC, p.ID)
	default:
		return ErrInvalidQoS
	}
}

func (c *Client) dispatchPubrec(p *PubrecPacket) error {
	if c.inflight.matches(p.ID) {
		c.inflight.pubrelPending = true
	}
	return c.sendAck(PacketPUBREL, p.ID)
}

func (c *Client) dispatchPubrel(p *PubrelPacket) error {
	c.qos2Rx.remove(p.ID)
	return c.sendAck(PacketPUBCOMP, p.ID)
}

// sendAck encodes and writes one of the PacketID-only acks (PUBACK,
// PUBREC, PUBREL, PUBCOMP) in response to an inbound packet.
func (c *Client) sendAck(ackType PacketType, id uint16) error {
	var packet Packet
	switch ackType {
	case PacketPUBACK:
		packet = &PubackPacket{ID: id}
	case PacketPUBREC:
		packet = &PubrecPacket{ID: id}
	case PacketPUBREL:
		packet = &PubrelPacket{ID: id}
	case PacketPUBCOMP:
		packet = &PubcompPacket{ID: id}
	default:
		return ErrUnexpectedPacket
	}

	n, err := encodeInto(c.sendBuf, packet)
	if err != nil {
		return err
	}
	if err := c.writeFrame(c.sendBuf[:n], c.options.commandTimeoutMs()); err != nil {
		return err
	}
	c.metrics.PacketSent(ackType, n)
	return nil
}

// waitFor reads packets until one of type expected arrives or the
// deadline expires (§4.7's half-duplex RPC pattern). Other packets are
// dispatched as they arrive; the expected one is returned undispatched.
func (c *Client) waitFor(expected PacketType, deadlineMs int) (Packet, error) {
	timer := c.options.timerFactory()
	timer.Reset()

	for {
		remaining := remainingMs(timer, deadlineMs)
		if remaining <= 0 {
			c.session.reset()
			return nil, ErrCommandTimeout
		}

		packet, err := c.readFrame(remaining)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			c.session.reset()
			return nil, err
		}

		packetType := packet.Type()
		if packetType == expected {
			if err := c.checkKeepalive(); err != nil {
				c.session.reset()
				return nil, err
			}
			return packet, nil
		}

		if err := c.dispatch(packet); err != nil {
			c.session.reset()
			return nil, err
		}
	}
}

// Yield runs the cycle engine for up to timeoutMs, delivering inbound
// PUBLISHes and issuing PINGREQ as needed (§4.7 yield). It returns when
// the timeout elapses or a cycle fails.
func (c *Client) Yield(timeoutMs int) error {
	timer := c.options.timerFactory()
	timer.Reset()

	for {
		remaining := remainingMs(timer, timeoutMs)
		if remaining <= 0 {
			return nil
		}

		_, _, err := c.cycle(remaining)
		if err != nil {
			return err
		}
	}
}

func remainingMs(timer Timer, totalMs int) int {
	elapsedMs := int(timer.Elapsed().Milliseconds())
	left := totalMs - elapsedMs
	if left < 0 {
		return 0
	}
	return left
}

// isTimeout reports whether err represents "no data arrived before the
// deadline" rather than a genuine transport failure.
func isTimeout(err error) bool {
	return err == ErrReadTimeout
}

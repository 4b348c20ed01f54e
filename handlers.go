package mqttcore

// MessageHandler is invoked synchronously from the cycle engine when an
// inbound PUBLISH matches a subscribed filter. A handler must not issue
// any client command (Publish, Subscribe, ...) — callbacks run inside
// cycle, which may already be inside wait_for on behalf of another
// command; reentrant commands from a handler are unsupported (§5).
type MessageHandler func(msg *Message)

// handlerSlot is one entry of the fixed-size handler table; an empty
// Filter marks a free slot.
type handlerSlot struct {
	filter  string
	qos     byte
	handler MessageHandler
}

// handlerTable is the fixed-size filter→callback array spec.md §3
// names (handlers[H]). Grounded on the teacher's subscription_manager.go,
// re-shaped from a per-client-ID map suitable for tracking many broker
// subscribers down to one fixed array for the single local session.
// Filters are copied into the slot (not just referenced) so the caller
// is free to discard or mutate the string it passed to Subscribe —
// spec.md §9 recommends this over documenting a lifetime requirement.
type handlerTable struct {
	slots   []handlerSlot
	fallback MessageHandler
}

func newHandlerTable(capacity int) *handlerTable {
	return &handlerTable{slots: make([]handlerSlot, capacity)}
}

// add stores filter/qos/handler in the first free slot, reporting
// whether one was available.
func (t *handlerTable) add(filter string, qos byte, handler MessageHandler) bool {
	for i := range t.slots {
		if t.slots[i].filter == "" {
			t.slots[i] = handlerSlot{filter: filter, qos: qos, handler: handler}
			return true
		}
	}
	return false
}

// remove frees the slot matching filter exactly, a no-op if not found.
func (t *handlerTable) remove(filter string) {
	for i := range t.slots {
		if t.slots[i].filter == filter {
			t.slots[i] = handlerSlot{}
			return
		}
	}
}

// setDefault installs the catch-all handler for PUBLISHes matching no
// slot.
func (t *handlerTable) setDefault(handler MessageHandler) {
	t.fallback = handler
}

// dispatch scans occupied slots in index order, invoking every handler
// whose filter matches topic (§4.5 fan-out: 0..H callbacks may fire).
// If no slot matched and a default handler is attached, it fires once.
func (t *handlerTable) dispatch(msg *Message) {
	matched := false
	for i := range t.slots {
		slot := t.slots[i]
		if slot.filter == "" {
			continue
		}
		if slot.filter == msg.Topic || TopicMatch(slot.filter, msg.Topic) {
			matched = true
			slot.handler(msg)
		}
	}
	if !matched && t.fallback != nil {
		t.fallback(msg)
	}
}

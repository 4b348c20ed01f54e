package mqttcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type suffixTopicInterceptor struct{}

func (suffixTopicInterceptor) OnSend(msg *Message) *Message {
	msg.Topic = msg.Topic + "-sent"
	return msg
}

func (suffixTopicInterceptor) OnConsume(msg *Message) *Message {
	msg.Topic = msg.Topic + "-consumed"
	return msg
}

type dropInterceptor struct{}

func (dropInterceptor) OnSend(*Message) *Message    { return nil }
func (dropInterceptor) OnConsume(*Message) *Message { return nil }

type panicInterceptor struct{}

func (panicInterceptor) OnSend(*Message) *Message    { panic("boom") }
func (panicInterceptor) OnConsume(*Message) *Message { panic("boom") }

func TestApplyProducerInterceptors_EmptyChainReturnsOriginal(t *testing.T) {
	msg := &Message{Topic: "a/b"}
	got := applyProducerInterceptors(nil, msg)
	assert.Same(t, msg, got)
}

func TestApplyProducerInterceptors_ChainsInOrder(t *testing.T) {
	msg := &Message{Topic: "a/b"}
	got := applyProducerInterceptors([]ProducerInterceptor{suffixTopicInterceptor{}, suffixTopicInterceptor{}}, msg)
	assert.Equal(t, "a/b-sent-sent", got.Topic)
}

func TestApplyProducerInterceptors_NilBreaksChain(t *testing.T) {
	msg := &Message{Topic: "a/b"}
	got := applyProducerInterceptors([]ProducerInterceptor{dropInterceptor{}, suffixTopicInterceptor{}}, msg)
	assert.Nil(t, got)
}

func TestApplyProducerInterceptors_PanicRecoversToOriginalMessage(t *testing.T) {
	msg := &Message{Topic: "a/b"}
	got := applyProducerInterceptors([]ProducerInterceptor{panicInterceptor{}}, msg)
	assert.Same(t, msg, got)
}

func TestApplyConsumerInterceptors_ChainsInOrder(t *testing.T) {
	msg := &Message{Topic: "a/b"}
	got := applyConsumerInterceptors([]ConsumerInterceptor{suffixTopicInterceptor{}}, msg)
	assert.Equal(t, "a/b-consumed", got.Topic)
}

func TestApplyConsumerInterceptors_NilBreaksChain(t *testing.T) {
	msg := &Message{Topic: "a/b"}
	got := applyConsumerInterceptors([]ConsumerInterceptor{dropInterceptor{}}, msg)
	assert.Nil(t, got)
}

func TestApplyConsumerInterceptors_PanicRecoversToOriginalMessage(t *testing.T) {
	msg := &Message{Topic: "a/b"}
	got := applyConsumerInterceptors([]ConsumerInterceptor{panicInterceptor{}}, msg)
	assert.Same(t, msg, got)
}

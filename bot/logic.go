package bot

// ShouldRespond decides whether an incoming message deserves a reply.
// Direct replies to the bot and private 1-on-1 chats always do; everything
// else answers with probability frequency, clamped to [0, 1], against the
// caller-supplied random value in [0, 1).
func ShouldRespond(randomValue, frequency float64, repliedToBot, isPrivateChat bool) bool {
	if repliedToBot || isPrivateChat {
		return true
	}
	if frequency < 0 {
		frequency = 0
	} else if frequency > 1 {
		frequency = 1
	}
	return randomValue <= frequency
}

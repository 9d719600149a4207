package chat

// cannedReplies is the fixed pool of simulated peer acknowledgements.
var cannedReplies = []string{
	"That's interesting!",
	"I see what you mean 👍",
	"Absolutely!",
	"Thanks for sharing that",
	"Let me think about it",
	"Good point!",
}

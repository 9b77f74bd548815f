package moderation

// User-facing texts. The suggestion header and reply prefix are load-bearing:
// the header carries the sender id the fallback recovery path parses, and
// senders see the reply prefix verbatim.
const (
	textBlockedSender = "Sorry, you have been blocked and cannot send suggestions."
	textSuggestionAck = "Thank you! Your suggestion has been sent to the administration."

	textForwardConfigApology    = "Sorry, could not send your suggestion. There might be an issue with the moderation group."
	textForwardTransientApology = "Sorry, a technical error occurred while sending your suggestion. Please try again later."

	textReplyPrefix = "Reply from Administration:\n\n"

	textAdminGreeting = "Hello, Admin! 👋\n" +
		"You can manage suggestions.\n" +
		"Use /unban <user_id> to unblock a user."
	textSenderGreeting = "Hello! 👋\n" +
		"Send your suggestion as text. You can also attach one screenshot (send a photo with a caption)."

	textUnbanUsage     = "Usage: /unban <user_id>"
	textUnbanInvalidID = "Invalid User ID. Please provide a number."

	textAdminsOnly        = "This action is only available to administrators."
	textInvalidActionID   = "Error: Invalid action token."
	textEnterReply        = "Enter the reply text:"
	textNothingToCancel   = "You are not in reply mode."
	textCancelConfirmed   = "Action cancelled. You are no longer in reply mode."
	textSessionSuperseded = "Previous reply prompt discarded."
)

const (
	buttonReply  = "✅ Reply"
	buttonBlock  = "🚫 Block"
	buttonUnban  = "🟢 Unban User"
	buttonCancel = "❌ Cancel"
)

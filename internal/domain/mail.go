package domain

// MailOptions contains optional settings for outgoing mails.
type MailOptions struct {
	ReplyTo  string // defaults to the sender address
	HtmlBody string // optional html alternative body
	Cc       []string
	Bcc      []string
}

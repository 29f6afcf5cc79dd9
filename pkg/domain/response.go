package domain

// Response is a single reply addressed to a chat. Exactly one of Text or File is set.
type Response struct {
	ChatID int64
	Text   string
	File   *File
}

type File struct {
	Name string
	Data []byte
}

const VideoFileName = "video.mp4"

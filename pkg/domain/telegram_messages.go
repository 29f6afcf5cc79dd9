package domain

const (
	GreetingText      = "Отправь ссылку на видео с YouTube, Instagram или TikTok для скачивания"
	InvalidLinkText   = "Пожалуйста, отправь корректную ссылку на видео"
	DownloadingText   = "Скачиваю видео..."
	DownloadErrorText = "Ошибка скачивания: %s"
)

package wizard

import "fmt"

// User-facing texts of the engine itself. Field prompts live in the schema.
const (
	msgStarted            = "📝 Начинаем новое объявление."
	msgRestartedOverDraft = "📝 Прежний черновик удалён, начинаем заново."
	msgNoSession          = "Нет активного объявления. Отправьте /new, чтобы начать."
	msgNothingToCancel    = "Отменять нечего, активного объявления нет."
	msgCancelled          = "❌ Объявление отменено."
	msgRestarted          = "🔄 Начинаем заполнение заново."
	msgVideoAlready       = "Видео уже добавлено. Продолжайте или отправьте /cancel."
	msgMediaRequired      = "Добавьте хотя бы одно фото или видео, затем /done."
	msgConfirmPrompt      = "Проверьте объявление и выберите действие:"
	msgPublished          = "✅ Объявление опубликовано в канале!"
	msgPublishFailed      = "⚠️ Не удалось опубликовать объявление. Черновик удалён, попробуйте /new позже."
	msgInternalError      = "Что-то пошло не так. Черновик сохранён, попробуйте ещё раз."
)

func msgPhotoAdded(n, max int) string {
	return fmt.Sprintf("📷 Фото добавлено (%d из %d). Ещё фото, или /done чтобы продолжить.", n, max)
}

func msgPhotoLimit(max int) string {
	return fmt.Sprintf("Больше %d фото добавить нельзя. Отправьте /done, чтобы продолжить.", max)
}

func msgRejected(reason string) string {
	return "⚠️ " + reason
}

func deniedMessage(acc Access) string {
	if acc.JoinLink != "" {
		return "🔒 Публиковать объявления могут только подписчики канала.\nПодпишитесь и попробуйте снова: " + acc.JoinLink
	}
	return "🔒 Публиковать объявления могут только подписчики канала."
}

package service

const (
	textGreeting = "Здравствуйте! Для продолжения регистрации, пожалуйста, " +
		"ответьте на несколько вопросов.\n\n" +
		"У вас осталось %d попыток регистрации."
	textAttemptsExhausted = "Вы уже использовали максимальное количество попыток регистрации (3)."
	textCancelled         = "Регистрация отменена. Все введённые данные удалены.\n" +
		"Чтобы начать регистрацию заново, используйте команду /start"
	textSaved = "Спасибо! Ваши данные успешно сохранены.\n" +
		"Если вам нужно заполнить анкету повторно, используйте команду /start"
	textDuplicate = "Вы уже регистрировались ранее.\n" +
		"Если нужно обновить данные, обратитесь к администратору."
	textSaveFailed = "Произошла ошибка при сохранении данных. Пожалуйста, попробуйте позже."
)

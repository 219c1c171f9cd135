package flow

// User-facing texts. The bot serves a Russian-speaking audience; keep wording in sync
// with the validators (Cyrillic names, DD.MM.YYYY dates).
const (
	textAnswerYes = "Да"
	textAnswerNo  = "Нет"

	textBirthDatePrompt = "Укажите вашу дату рождения в формате ДД.ММ.ГГГГ\n" +
		"Например: 01.01.1990"
	textBirthDateRetry = "Неверный формат даты или возраст не соответствует требованиям (18-65 лет).\n" +
		"Пожалуйста, используйте формат ДД.ММ.ГГГГ\n" +
		"Например: 01.01.1990"

	textNamePrompt = "Введите ваши ФИО (Фамилия Имя Отчество).\n" +
		"Пример: Иванов Иван Иванович\n" +
		"Используйте только русские буквы, пробел и дефис."
	textNameCountRetry = "Пожалуйста, введите полные ФИО через пробел.\n" +
		"Пример: Иванов Иван Иванович"
	textNameCharsRetry = "Неверный формат ФИО. Используйте только русские буквы, пробел и дефис.\n" +
		"Пример: Иванов Иван Иванович"

	textPhonePrompt = "Введите ваш номер телефона.\n" +
		"Например: +79999999999 или 89999999999"
	textPhoneRetry = "Неверный формат номера телефона.\n" +
		"Примеры правильного формата:\n" +
		"+79999999999\n" +
		"89999999999\n" +
		"9999999999\n" +
		"+12345678901 (международный формат)\n\n" +
		"Номер должен содержать от 10 до 15 цифр."

	textSpecExamples = "Примеры:\n" +
		"837, 166, 461; Плотник, Маляр, Крановщик - если несколько ВУС и профессий\n" +
		"837; Плотник - если одна ВУС и профессия\n" +
		"нет - если нет ВУС и профессии"
	textSpecPrompt = "Укажите номера ВУС и профессии через точку с запятой (;)\n\n" + textSpecExamples
	textSpecRetry  = "Неверный формат. Укажите номера ВУС и профессии через точку с запятой (;)\n\n" + textSpecExamples

	textDentalPrompt    = "Есть ли у вас санация полости рта?"
	textMedicalPrompt   = "Есть ли у вас справки ВИЧ/Сифилис/Гепатит?"
	textPassportPrompt  = "Есть ли у вас загранпаспорт?"
	textContractsPrompt = "Есть ли у вас действующие контракты с силовыми ведомствами?"
	textYesNoRetry      = "Пожалуйста, выберите 'Да' или 'Нет' на клавиатуре."
)

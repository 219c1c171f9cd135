package bot

const (
	textDenied       = "Доступ запрещен."
	textLockedOut    = "Доступ заблокирован из-за превышения лимита попыток."
	textChoosePeriod = "Выберите период для отчета:"
	textReportFailed = "Ошибка при создании отчета: %s"
	textInternal     = "Произошла ошибка. Пожалуйста, попробуйте позже."
)

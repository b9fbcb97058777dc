package practicum

import (
	"fmt"

	"github.com/mdemidenko/homework-bot/internal/models"
)

const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

// HomeworkVerdicts вердикты для известных статусов
var HomeworkVerdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// CheckResponse проверяет форму ответа API и возвращает список работ без изменений
func CheckResponse(response any) ([]any, error) {
	body, ok := response.(map[string]any)
	if !ok {
		return nil, models.Errorf(models.KindShape, "ответ API не является словарем: %T", response)
	}
	raw, ok := body["homeworks"]
	if !ok {
		return nil, models.Errorf(models.KindMissingKey, "в ответе API нет ключа homeworks")
	}
	homeworks, ok := raw.([]any)
	if !ok {
		return nil, models.Errorf(models.KindShape, "homeworks не является списком: %T", raw)
	}
	return homeworks, nil
}

// HomeworkFromRecord приводит запись из списка homeworks к models.Homework
func HomeworkFromRecord(record any) (models.Homework, error) {
	fields, ok := record.(map[string]any)
	if !ok {
		return models.Homework{}, models.Errorf(models.KindShape, "запись о работе не является словарем: %T", record)
	}
	name, ok := fields["homework_name"].(string)
	if !ok {
		return models.Homework{}, models.Errorf(models.KindShape, "в записи о работе нет homework_name")
	}
	status, _ := fields["status"].(string)
	return models.Homework{Name: name, Status: status}, nil
}

// ParseStatus формирует сообщение об изменении статуса работы
func ParseStatus(record any) (string, error) {
	hw, err := HomeworkFromRecord(record)
	if err != nil {
		return "", err
	}
	verdict, ok := HomeworkVerdicts[hw.Status]
	if !ok {
		return "", models.Errorf(models.KindUnknownStatus, "неизвестный статус работы: %q", hw.Status)
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", hw.Name, verdict), nil
}

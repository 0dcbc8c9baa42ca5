// Package cli реализует инструмент командной строки Briefly.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Briefly API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для просмотра истории дайджестов и живых сессий.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Briefly API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	digests, err := client.ListDigests(cli.ListDigestsOpts{})
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: briefly digest list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - digest: list, show
//   - session: list, show
//
// Каждая группа создаётся через фабричную функцию (NewDigestCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli

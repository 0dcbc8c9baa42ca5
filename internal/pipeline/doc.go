// Package pipeline обрабатывает захваченные batches документов.
//
// # Обзор
//
// Pipeline — Processor для batcher'а. Для каждого batch'а он:
//
//  1. Извлекает текст каждого документа (Extractor)
//  2. Суммаризирует документы с непустым текстом (Summarizer),
//     при необходимости нарезая текст на куски
//  3. Объединяет summary в порядке поступления документов
//  4. Безусловно освобождает временные файлы всех документов
//  5. Синтезирует голосовое summary (Synthesizer) и отправляет
//     его пользователю (Notifier), либо отправляет уведомление
//     об ошибке, если ни одного summary не получилось
//
// # Ошибки
//
// Ошибки извлечения и суммаризации — per-item: документ выпадает из
// итогового summary, но batch продолжается. Результат каждого шага —
// явный itemResult, а не исключение: политика "продолжаем при
// частичной ошибке" видна в типе.
//
// Единственная user-visible ошибка — пустой batch (ноль summary).
// Ошибки освобождения ресурсов логируются и никогда не попадают
// в уведомления.
//
// # Ресурсы
//
// Каждый временный файл документа освобождается ровно один раз,
// независимо от исхода обработки. Синтезированное аудио освобождается
// на любом пути выхода после попытки доставки.
package pipeline

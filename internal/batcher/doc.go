// Package batcher реализует per-user debounce-накопление документов.
//
// # Обзор
//
// Batcher — stateful ядро системы Briefly. Для каждого пользователя он:
//
//   - Накапливает принятые документы в pending-списке сессии
//   - На каждый новый документ перевзводит debounce-таймер (quiet period)
//   - Когда таймер срабатывает без перевзвода — атомарно захватывает
//     pending-список и отдаёт его Processor'у в отдельной горутине
//
// Batching определяется неактивностью, а не временем первого документа:
// пользователь, присылающий файлы непрерывно, никогда не получит
// промежуточный частичный digest.
//
// # Гарантии
//
//   - Ни один принятый документ не теряется
//   - Захваченный batch обрабатывается ровно один раз
//   - Документы, пришедшие во время обработки, копятся в новый,
//     непересекающийся batch той же сессии
//   - Сессии разных пользователей никогда не блокируют друг друга
//
// # Устройство таймера
//
// Вместо настоящей преемптивной отмены таймера используется
// generation counter: каждый перевзвод увеличивает поколение сессии,
// а сработавший callback первым делом сверяет своё поколение с текущим.
// Устаревший callback (таймер перевзвели, пока fire уже стартовал)
// превращается в no-op.
//
// # Захват batch'а
//
// Захват — атомарный swap: pending-список заменяется новым пустым,
// старый уходит в pipeline. "Прочитать и очистить" двумя шагами нельзя —
// документ, пришедший между чтением и очисткой, был бы потерян.
//
// # Использование
//
//	b := batcher.New(batcher.Config{
//	    Window:    3 * time.Second,
//	    Processor: pipe,
//	    Logger:    logger,
//	})
//
//	b.Add(ctx, doc)   // на каждый принятый документ
//	...
//	b.Stop()          // захватывает остатки и ждёт in-flight batches
package batcher

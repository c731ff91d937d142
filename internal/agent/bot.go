package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/michaldrozd/spellcross-sub000/pkg/utils"
	"github.com/sirupsen/logrus"
)

// ErrRoundLimit - бой не закончился за отведённое число раундов.
var ErrRoundLimit = errors.New("round limit reached")

// Bot представляет собой "Игрока-компьютера" за одну сторону.
// Он подписан на бой как обычный клиент и видит только свои снимки
// (туман войны уже применён). Когда снимок сообщает, что ход его стороны,
// бот отдаёт ход встроенному ИИ командой AI_TURN.
//
// Жизненный цикл:
//  1. NewBot -> подписка на сессию, личный канал Inbox.
//  2. Run -> слушает Inbox до конца боя, лимита раундов или отмены ctx.
type Bot struct {
	Session      *engine.Session
	Faction      domain.Faction
	SubscriberID string
	Inbox        chan api.ServerResponse
	// MaxRounds 0 - без лимита
	MaxRounds int

	log *logrus.Entry
}

func NewBot(session *engine.Session, faction domain.Faction, maxRounds int) *Bot {
	id := utils.NewSubscriberID()
	b := &Bot{
		Session:      session,
		Faction:      faction,
		SubscriberID: id,
		MaxRounds:    maxRounds,
		log: logger.Log.WithFields(logrus.Fields{
			"component":     "bot",
			"battle_id":     session.ID,
			"faction":       faction,
			"subscriber_id": id,
		}),
	}
	b.Inbox = session.Subscribe(id, faction)
	b.log.Debug("Bot subscribed")
	return b
}

// Run играет за свою сторону. nil - бой окончен.
func (b *Bot) Run(ctx context.Context) error {
	defer b.Session.Unsubscribe(b.SubscriberID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-b.Inbox:
			if !ok {
				b.log.Info("Bot disconnected: battle removed")
				return nil
			}
			done, err := b.handle(update)
			if done || err != nil {
				return err
			}
		}
	}
}

func (b *Bot) handle(update api.ServerResponse) (bool, error) {
	if update.Winner != "" {
		b.log.WithField("winner", update.Winner).Info("Battle over")
		return true, nil
	}
	if b.MaxRounds > 0 && update.Round > b.MaxRounds {
		return true, fmt.Errorf("%w: %d", ErrRoundLimit, b.MaxRounds)
	}
	// Реагируем только на свой ход
	if domain.ParseFaction(update.ActiveFaction) != b.Faction {
		return false, nil
	}

	res, err := b.Session.Execute(b.Faction, domain.ActionAITurn, nil)
	if err != nil {
		return true, err
	}
	if !res.Outcome.Success {
		// Снимок устарел: ход уже передан, ждём следующий
		b.log.WithField("error", res.Outcome.Error).Debug("AI_TURN rejected")
	}
	return false, nil
}

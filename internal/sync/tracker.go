// Package sync はクライアント側の状態同期ロジックを提供する。
//
// 未読カウンタとエントリ一覧は、楽観的なローカル更新・WebSocketプッシュ・
// 定期ポーリングの3系統から同時に更新される。このパッケージはそれらを
// 決定的な1つの状態へ収束させるための小さなステートマシンを提供する。
package sync

import (
	stdsync "sync"
	"time"
)

// counterState はカウンタの同期状態を表す。
type counterState int

const (
	// stateSynced はサーバー値をそのまま信頼できる通常状態。
	stateSynced counterState = iota
	// stateOptimisticPending は既読化をローカルで先行反映し、
	// サーバーの確認を待っている状態。
	stateOptimisticPending
	// stateGuardActive は確認後のガード期間。確認前に発行された
	// 古いポーリング結果が楽観値を上書きするのを防ぐ。
	stateGuardActive
)

// guardDuration は既読確認後にポーリング結果を無視する期間。
// ポーリング間隔より長く取り、機内で追い越された応答を吸収する。
const guardDuration = 3 * time.Second

// CounterTracker は1カテゴリ分の未読カウンタを追跡する。
// すべてのメソッドは複数ゴルーチンから安全に呼び出せる。
type CounterTracker struct {
	mu           stdsync.Mutex
	value        int
	state        counterState
	guardStarted time.Time
	viewing      bool
	selfUser     string
	now          func() time.Time
}

// NewCounterTracker は指定ユーザー視点のカウンタトラッカーを生成する。
func NewCounterTracker(selfUser string) *CounterTracker {
	return &CounterTracker{
		selfUser: selfUser,
		now:      time.Now,
	}
}

// Value は現在のカウンタ値を返す。
func (t *CounterTracker) Value() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// EnterView は対象画面の表示開始を記録する。カウンタを即座に0へ
// 楽観更新し、サーバーの既読確認までoptimisticPending状態に入る。
func (t *CounterTracker) EnterView() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.viewing = true
	t.value = 0
	t.state = stateOptimisticPending
}

// LeaveView は対象画面の表示終了を記録する。以後のプッシュは
// 再びカウンタを増やす。
func (t *CounterTracker) LeaveView() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.viewing = false
}

// MarkReadConfirmed はサーバーが既読化を確認したことを記録する。
// ここからguardDurationの間、ポーリング結果を無視する。
func (t *CounterTracker) MarkReadConfirmed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = stateGuardActive
	t.guardStarted = t.now()
}

// MarkReadFailed は既読化リクエストの失敗を記録する。楽観値を放棄し、
// 次のポーリング結果を受け入れるsynced状態へ戻す。
func (t *CounterTracker) MarkReadFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = stateSynced
}

// ApplyPoll はポーリングで得たサーバー側カウンタを適用する。
// 楽観更新の確認待ち中とガード期間中は、古い応答の可能性があるため
// 無視する。ガード期間が明けていれば synced へ戻して値を採用する。
func (t *CounterTracker) ApplyPoll(serverValue int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case stateOptimisticPending:
		return
	case stateGuardActive:
		if t.now().Sub(t.guardStarted) < guardDuration {
			return
		}
		t.state = stateSynced
	}

	t.value = serverValue
}

// ApplyPush はWebSocketで届いた新規エントリを適用する。自分が作成した
// エントリと、対象画面を表示中のエントリはカウントしない（表示中は
// 即座に読まれたとみなす）。
func (t *CounterTracker) ApplyPush(author string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if author == t.selfUser || t.viewing {
		return
	}
	t.value++
}

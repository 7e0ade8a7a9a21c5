package sync

import (
	stdsync "sync"
)

// Entry はリスト同期対象の1件を表す。IDで同一性を判定する。
type Entry struct {
	ID      string
	Author  string
	Payload any
}

// Reconciler は楽観的に追加したローカルエントリとサーバー確定分・
// リアルタイムプッシュ分を重複なく1本のリストへ統合する。
//
// 楽観エントリは一時IDで先頭（または末尾）に挿入され、サーバーの
// 確認応答で実IDに置換される。同じエントリがWebSocket経由でも届く
// ため、実IDでの重複排除を常に行う。
type Reconciler struct {
	mu      stdsync.Mutex
	entries []Entry
	// pending は一時ID -> インデックス位置の追跡用。
	pending map[string]struct{}
	// seen は実IDの既出集合。プッシュと確認応答の二重適用を防ぐ。
	seen map[string]struct{}
	// prepend がtrueなら新規エントリを先頭へ挿入する（フィードは新しい順、
	// チャットは古い順のためfalse）。
	prepend bool
}

// NewReconciler はリコンサイラを生成する。
func NewReconciler(prepend bool) *Reconciler {
	return &Reconciler{
		pending: map[string]struct{}{},
		seen:    map[string]struct{}{},
		prepend: prepend,
	}
}

// Reset はサーバーから取得した一覧で全体を置き換える。
// 確認待ちの楽観エントリは維持する。
func (r *Reconciler) Reset(entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []Entry
	for _, e := range r.entries {
		if _, ok := r.pending[e.ID]; ok {
			kept = append(kept, e)
		}
	}

	r.seen = map[string]struct{}{}
	r.entries = nil
	for _, e := range entries {
		if _, dup := r.seen[e.ID]; dup {
			continue
		}
		r.seen[e.ID] = struct{}{}
		r.entries = append(r.entries, e)
	}

	for _, e := range kept {
		r.insert(e)
	}
}

// AddOptimistic は一時IDを持つ楽観エントリを挿入する。
// Confirmで実IDに置換されるか、Failで取り除かれるまでリストに残る。
func (r *Reconciler) AddOptimistic(tempID string, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = tempID
	r.pending[tempID] = struct{}{}
	r.insert(entry)
}

// Confirm は楽観エントリをサーバー確定版で置換する。実IDがすでに
// プッシュ経由で反映済みの場合は楽観エントリを取り除くだけでよい。
func (r *Reconciler) Confirm(tempID string, confirmed Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, tempID)

	if _, dup := r.seen[confirmed.ID]; dup {
		r.remove(tempID)
		return
	}

	for i, e := range r.entries {
		if e.ID == tempID {
			r.entries[i] = confirmed
			r.seen[confirmed.ID] = struct{}{}
			return
		}
	}

	// 楽観エントリがResetで消えた場合は新規として挿入する。
	r.seen[confirmed.ID] = struct{}{}
	r.insert(confirmed)
}

// Fail は失敗した楽観エントリをリストから取り除く。
func (r *Reconciler) Fail(tempID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, tempID)
	r.remove(tempID)
}

// ApplyRemote はプッシュで届いた新規エントリを適用する。
// 既出の実IDは無視する（自分の書き込みのエコーを含む）。
func (r *Reconciler) ApplyRemote(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.seen[entry.ID]; dup {
		return
	}
	r.seen[entry.ID] = struct{}{}
	r.insert(entry)
}

// ApplyUpdate は既存エントリを差し替える。未知のIDは無視する。
func (r *Reconciler) ApplyUpdate(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == entry.ID {
			r.entries[i] = entry
			return
		}
	}
}

// ApplyDelete は指定IDのエントリを取り除く。
func (r *Reconciler) ApplyDelete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.seen, id)
	r.remove(id)
}

// Entries は現在のリストのコピーを返す。
func (r *Reconciler) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Reconciler) insert(entry Entry) {
	if r.prepend {
		r.entries = append([]Entry{entry}, r.entries...)
		return
	}
	r.entries = append(r.entries, entry)
}

func (r *Reconciler) remove(id string) {
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

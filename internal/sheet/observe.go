package sheet

// Subscription is returned by Subscribe. Unsubscribe is idempotent.
type Subscription struct {
	id  uint64
	reg *observers
}

// Unsubscribe stops further deliveries to the subscriber.
func (s Subscription) Unsubscribe() {
	if s.reg == nil {
		return
	}
	s.reg.remove(s.id)
}

type observer struct {
	id uint64
	fn func(State)
}

// observers delivers state snapshots in subscription order.
type observers struct {
	list   []observer
	nextID uint64
}

func (o *observers) add(fn func(State)) Subscription {
	o.nextID++
	o.list = append(o.list, observer{id: o.nextID, fn: fn})
	return Subscription{id: o.nextID, reg: o}
}

func (o *observers) remove(id uint64) {
	for i, ob := range o.list {
		if ob.id == id {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return
		}
	}
}

func (o *observers) publish(s State) {
	// A subscriber may unsubscribe while being notified.
	list := o.list
	for _, ob := range list {
		ob.fn(s.snapshot())
	}
}

package repository

// Schema returns the statements that create the tables this service needs.
// Kept as plain DDL so a fresh database can be initialized at startup
// without an external migration tool.
func Schema() []string {
	return []string{
		`create table if not exists users (
			id bigserial primary key,
			username text not null unique,
			email text not null default '',
			starting_capital double precision not null default 0,
			weekly_capital double precision not null default 0,
			running_capital double precision not null default 0,
			created_at timestamptz not null default now(),
			updated_at timestamptz not null default now()
		);`,
		`create table if not exists signals (
			id bigserial primary key,
			user_id bigint not null references users(id),
			seq int not null,
			title text not null,
			date timestamptz not null,
			window_label text not null,
			slot text not null,
			starting_capital double precision not null default 0,
			final_capital double precision not null default 0,
			profit double precision not null default 0,
			traded boolean not null default false,
			status text not null default 'not-started',
			created_at timestamptz not null default now(),
			updated_at timestamptz not null default now(),
			unique (user_id, slot)
		);`,
		`create index if not exists signals_user_date_idx on signals(user_id, date);`,
		`create index if not exists signals_user_status_idx on signals(user_id, status);`,
		`create table if not exists deposits (
			id bigserial primary key,
			user_id bigint not null references users(id),
			amount double precision not null,
			bonus double precision not null default 0,
			date timestamptz not null,
			phase int not null default 0,
			created_at timestamptz not null default now()
		);`,
		`create index if not exists deposits_user_date_idx on deposits(user_id, date);`,
		`create table if not exists withdrawals (
			id bigserial primary key,
			user_id bigint not null references users(id),
			amount double precision not null,
			date timestamptz not null,
			phase int not null default 0,
			created_at timestamptz not null default now()
		);`,
		`create index if not exists withdrawals_user_date_idx on withdrawals(user_id, date);`,
		`create table if not exists revenues (
			id bigserial primary key,
			user_id bigint not null references users(id),
			period text not null,
			total_deposit double precision not null default 0,
			total_withdrawal double precision not null default 0,
			total_profit double precision not null default 0,
			total_revenue double precision not null default 0,
			updated_at timestamptz not null default now(),
			unique (user_id, period)
		);`,
		`create index if not exists revenues_user_period_idx on revenues(user_id, period);`,
	}
}
